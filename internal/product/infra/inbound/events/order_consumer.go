package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/davicafu/tiendalab/internal/product/application"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	sharedUtils "github.com/davicafu/tiendalab/internal/shared/utils"
)

// OrderConsumer escucha los pedidos creados para descontar stock del catálogo.
type OrderConsumer struct {
	service *application.ProductService
	log     *zap.Logger
}

func NewOrderConsumer(service *application.ProductService, logger *zap.Logger) *OrderConsumer {
	return &OrderConsumer{service: service, log: logger}
}

// Start registra la suscripción a la cola de pedidos.
func (c *OrderConsumer) Start(ctx context.Context, broker sharedBus.Broker) error {
	c.log.Info("🎧 Consumidor de stock escuchando", zap.String("queue", sharedEvents.OrderPlacedForStock))
	return broker.Subscribe(ctx, sharedEvents.OrderPlacedForStock, c.handleOrderPlaced)
}

func (c *OrderConsumer) handleOrderPlaced(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
	return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderPlacedSnapshot) sharedBus.Decision {
		if err := c.service.ApplyOrderPlaced(ctx, evt); err != nil {
			c.log.Warn("Failed to apply stock decrement, requeueing",
				zap.String("order_id", evt.OrderID),
				zap.Error(err),
			)
			return sharedBus.Requeue
		}
		return sharedBus.Ack
	})
}
