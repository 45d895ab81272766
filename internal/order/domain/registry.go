package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// Puntos de publicación del servicio de pedidos. Cada escritura local
// deja sus eventos en el outbox; el relayer los publica tras el commit.

func newEvent(o *Order, queue string, payload interface{}) sharedDomain.OutboxEvent {
	return sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "order",
		AggregateID:   o.ID.String(),
		EventType:     queue,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewOrderCreatedEvents: snapshot completo al dashboard, líneas de stock al
// servicio de productos y aviso al servicio de notificaciones.
func NewOrderCreatedEvents(o *Order) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(o, sharedEvents.OrderCreated, o.Snapshot()),
		newEvent(o, sharedEvents.OrderPlacedForStock, o.StockSnapshot()),
		newEvent(o, sharedEvents.OrderCreatedNotif, o.NotificationSnapshot()),
	}
}

// NewOrderStatusEvents: actualización parcial al dashboard; si el pedido
// llega a DELIVERED también se notifica al comprador.
func NewOrderStatusEvents(o *Order) []sharedDomain.OutboxEvent {
	evts := []sharedDomain.OutboxEvent{
		newEvent(o, sharedEvents.OrderStatusUpdated, o.StatusSnapshot()),
	}
	if o.Status == OrderDelivered {
		evts = append(evts, newEvent(o, sharedEvents.OrderDeliveredNotif, o.NotificationSnapshot()))
	}
	return evts
}

// NewOrderCancelledEvents: cancelación al dashboard y al comprador.
func NewOrderCancelledEvents(o *Order) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(o, sharedEvents.OrderCancelled, o.StatusSnapshot()),
		newEvent(o, sharedEvents.OrderCancelledNotif, o.NotificationSnapshot()),
	}
}
