package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/tiendalab/internal/dashboard/application"
	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	sharedUtils "github.com/davicafu/tiendalab/internal/shared/utils"
)

// DashboardConsumer proyecta en el dashboard todos los eventos de catálogo,
// pedidos y pagos. Un mismo mensaje puede llegar más de una vez: cada handler
// decide explícitamente qué hacer con él.
type DashboardConsumer struct {
	service  *application.ProjectionService
	eventLog dashDomain.EventLogger // opcional, best-effort
	log      *zap.Logger
}

func NewDashboardConsumer(service *application.ProjectionService, eventLog dashDomain.EventLogger, logger *zap.Logger) *DashboardConsumer {
	return &DashboardConsumer{
		service:  service,
		eventLog: eventLog,
		log:      logger,
	}
}

// Start registra una suscripción por cada cola del dashboard.
func (c *DashboardConsumer) Start(ctx context.Context, broker sharedBus.Broker) error {
	for _, queue := range sharedEvents.SellerDashboardQueues() {
		if err := broker.Subscribe(ctx, queue, c.HandleMessage); err != nil {
			return err
		}
		c.log.Info("🎧 Proyector del dashboard escuchando", zap.String("queue", queue))
	}
	return nil
}

// HandleMessage enruta el mensaje al handler de su cola.
func (c *DashboardConsumer) HandleMessage(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
	c.logEvent(queue, payload)

	switch queue {
	case sharedEvents.ProductCreated:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.ProductSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyProductCreated(ctx, evt))
		})

	case sharedEvents.ProductUpdated:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.ProductSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyProductUpdated(ctx, evt))
		})

	case sharedEvents.ProductDeleted:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.ProductDeletedSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyProductDeleted(ctx, evt))
		})

	case sharedEvents.DecreaseStocks:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.StockSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyStockDecreased(ctx, evt))
		})

	case sharedEvents.OrderCreated:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyOrderCreated(ctx, evt))
		})

	case sharedEvents.OrderStatusUpdated, sharedEvents.OrderCancelled:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderStatusSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyOrderStatus(ctx, evt))
		})

	case sharedEvents.PaymentInitiated:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.PaymentSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyPaymentInitiated(ctx, evt))
		})

	case sharedEvents.PaymentSuccessful:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.PaymentSnapshot) sharedBus.Decision {
			return c.apply(queue, evt.ID, c.service.ApplyPaymentSuccessful(ctx, evt))
		})

	default:
		c.log.Warn("Unknown queue for dashboard projection", zap.String("queue", queue))
		return sharedBus.Drop
	}
}

// apply traduce el resultado del servicio a una decisión del broker. Todo
// fallo se reencola, incluido el insert duplicado: tras agotar los
// reintentos el mensaje acaba en la DLQ, donde el duplicado queda visible.
func (c *DashboardConsumer) apply(queue, id string, err error) sharedBus.Decision {
	if err == nil {
		c.log.Info("✅ Proyección aplicada", zap.String("queue", queue), zap.String("id", id))
		return sharedBus.Ack
	}

	c.log.Warn("Failed to apply projection, requeueing",
		zap.String("queue", queue),
		zap.String("id", id),
		zap.Error(err),
	)
	return sharedBus.Requeue
}

// logEvent registra el mensaje crudo en el almacén analítico sin bloquear
// la proyección.
func (c *DashboardConsumer) logEvent(queue string, payload []byte) {
	if c.eventLog == nil {
		return
	}

	var base struct {
		ID string `json:"_id"`
	}
	// El id puede faltar en snapshots parciales; se registra vacío.
	_ = json.Unmarshal(payload, &base)

	entry := dashDomain.EventLogEntry{
		Queue:       queue,
		AggregateID: base.ID,
		Payload:     string(payload),
		ReceivedAt:  time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.eventLog.LogEvents(ctx, []dashDomain.EventLogEntry{entry}); err != nil {
			c.log.Warn("Failed to log integration event", zap.String("queue", queue), zap.Error(err))
		}
	}()
}
