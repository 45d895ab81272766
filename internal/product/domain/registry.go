package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// Puntos de publicación del servicio de catálogo. Cada escritura local deja
// sus eventos en el outbox; el relayer los publica tras el commit.

func newEvent(productID, queue string, payload interface{}) sharedDomain.OutboxEvent {
	return sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "product",
		AggregateID:   productID,
		EventType:     queue,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

func NewProductCreatedEvents(p *Product) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(p.ID, sharedEvents.ProductCreated, p.Snapshot()),
	}
}

func NewProductUpdatedEvents(p *Product) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(p.ID, sharedEvents.ProductUpdated, p.Snapshot()),
	}
}

func NewProductDeletedEvents(id string) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(id, sharedEvents.ProductDeleted, sharedEvents.ProductDeletedSnapshot{ID: id}),
	}
}

// NewStockDecreasedEvents publica el stock resultante tras descontar las
// unidades de un pedido.
func NewStockDecreasedEvents(p *Product) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(p.ID, sharedEvents.DecreaseStocks, p.StockSnapshot()),
	}
}
