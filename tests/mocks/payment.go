package mocks

import (
	"context"
	"sync"

	paymentDomain "github.com/davicafu/tiendalab/internal/payment/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
)

// InMemoryPaymentRepo es un repositorio de pagos en memoria para tests.
// Guarda también los eventos de outbox de cada escritura.
type InMemoryPaymentRepo struct {
	mu       sync.Mutex
	Payments map[string]*paymentDomain.Payment
	Outbox   []sharedDomain.OutboxEvent
}

var _ paymentDomain.PaymentRepository = (*InMemoryPaymentRepo)(nil)

func NewInMemoryPaymentRepo() *InMemoryPaymentRepo {
	return &InMemoryPaymentRepo{
		Payments: make(map[string]*paymentDomain.Payment),
	}
}

func (r *InMemoryPaymentRepo) Create(ctx context.Context, p *paymentDomain.Payment, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *p
	r.Payments[p.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryPaymentRepo) GetByID(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Payments[id]
	if !ok {
		return nil, paymentDomain.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *InMemoryPaymentRepo) Update(ctx context.Context, p *paymentDomain.Payment, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Payments[p.ID]; !ok {
		return paymentDomain.ErrPaymentNotFound
	}
	copied := *p
	r.Payments[p.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}
