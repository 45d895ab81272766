package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/davicafu/tiendalab/internal/notification/application"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	sharedUtils "github.com/davicafu/tiendalab/internal/shared/utils"
)

// NotificationConsumer escucha las colas de notificación y delega el envío.
// El envío es best-effort: el mensaje se confirma siempre que el payload sea
// legible, falle o no el correo.
type NotificationConsumer struct {
	service *application.NotificationService
	log     *zap.Logger
}

func NewNotificationConsumer(service *application.NotificationService, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{service: service, log: logger}
}

// Start registra una suscripción por cada cola de notificaciones.
func (c *NotificationConsumer) Start(ctx context.Context, broker sharedBus.Broker) error {
	for _, queue := range sharedEvents.NotificationQueues() {
		if err := broker.Subscribe(ctx, queue, c.HandleMessage); err != nil {
			return err
		}
		c.log.Info("🎧 Consumidor de notificaciones escuchando", zap.String("queue", queue))
	}
	return nil
}

// HandleMessage enruta el mensaje al render de su cola.
func (c *NotificationConsumer) HandleMessage(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
	switch queue {
	case sharedEvents.UserCreatedNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.UserSnapshot) sharedBus.Decision {
			c.service.NotifyUserCreated(ctx, evt)
			return sharedBus.Ack
		})

	case sharedEvents.PasswordChangedNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.UserSnapshot) sharedBus.Decision {
			c.service.NotifyPasswordChanged(ctx, evt)
			return sharedBus.Ack
		})

	case sharedEvents.OrderCreatedNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderNotificationSnapshot) sharedBus.Decision {
			c.service.NotifyOrderCreated(ctx, evt)
			return sharedBus.Ack
		})

	case sharedEvents.OrderCancelledNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderNotificationSnapshot) sharedBus.Decision {
			c.service.NotifyOrderCancelled(ctx, evt)
			return sharedBus.Ack
		})

	case sharedEvents.OrderDeliveredNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.OrderNotificationSnapshot) sharedBus.Decision {
			c.service.NotifyOrderDelivered(ctx, evt)
			return sharedBus.Ack
		})

	case sharedEvents.PaymentSuccessfulNotif:
		return sharedUtils.DecodeAndHandle(c.log, payload, func(evt sharedEvents.PaymentNotificationSnapshot) sharedBus.Decision {
			c.service.NotifyPaymentSuccessful(ctx, evt)
			return sharedBus.Ack
		})

	default:
		c.log.Warn("Unknown queue for notifications", zap.String("queue", queue))
		return sharedBus.Drop
	}
}
