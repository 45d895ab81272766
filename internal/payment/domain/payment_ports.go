package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// PaymentRepository persiste los pagos junto a sus eventos de outbox.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment, evts []sharedDomain.OutboxEvent) error

	// Debe devolver ErrPaymentNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Payment, error)

	Update(ctx context.Context, p *Payment, evts []sharedDomain.OutboxEvent) error
}

// ---------- Puntos de publicación ----------

func newEvent(paymentID, queue string, payload interface{}) sharedDomain.OutboxEvent {
	return sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "payment",
		AggregateID:   paymentID,
		EventType:     queue,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewPaymentInitiatedEvents: el dashboard registra el intento de cobro.
func NewPaymentInitiatedEvents(p *Payment) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(p.ID, sharedEvents.PaymentInitiated, p.Snapshot()),
	}
}

// NewPaymentSuccessfulEvents: cobro confirmado por la pasarela; se proyecta
// en el dashboard y se avisa al comprador.
func NewPaymentSuccessfulEvents(p *Payment) []sharedDomain.OutboxEvent {
	return []sharedDomain.OutboxEvent{
		newEvent(p.ID, sharedEvents.PaymentSuccessful, p.Snapshot()),
		newEvent(p.ID, sharedEvents.PaymentSuccessfulNotif, p.NotificationSnapshot()),
	}
}
