package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// InMemoryOrderRepo es un repositorio de pedidos en memoria para tests.
// Guarda también los eventos de outbox de cada escritura.
type InMemoryOrderRepo struct {
	mu     sync.Mutex
	Orders map[uuid.UUID]*orderDomain.Order
	Outbox []sharedDomain.OutboxEvent
}

var _ orderDomain.OrderRepository = (*InMemoryOrderRepo)(nil)

func NewInMemoryOrderRepo() *InMemoryOrderRepo {
	return &InMemoryOrderRepo{
		Orders: make(map[uuid.UUID]*orderDomain.Order),
	}
}

func (r *InMemoryOrderRepo) Create(ctx context.Context, o *orderDomain.Order, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *o
	r.Orders[o.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.Orders[id]
	if !ok {
		return nil, orderDomain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *InMemoryOrderRepo) UpdateStatus(ctx context.Context, o *orderDomain.Order, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Orders[o.ID]; !ok {
		return orderDomain.ErrOrderNotFound
	}
	copied := *o
	r.Orders[o.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryOrderRepo) ListByUser(ctx context.Context, userID string) ([]*orderDomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []*orderDomain.Order
	for _, o := range r.Orders {
		if o.UserID == userID {
			copied := *o
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

// Len devuelve el número de pedidos persistidos.
func (r *InMemoryOrderRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Orders)
}

// StubCartClient devuelve un carrito fijo y cuenta las llamadas.
type StubCartClient struct {
	Cart  *orderDomain.Cart
	Err   error
	Calls int32
}

var _ orderDomain.CartClient = (*StubCartClient)(nil)

func (c *StubCartClient) GetCart(ctx context.Context, userID, token string) (*orderDomain.Cart, error) {
	atomic.AddInt32(&c.Calls, 1)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Cart, nil
}

// StubProductClient sirve snapshots desde un mapa y cuenta las llamadas.
// El contador es atómico: el orquestador consulta productos en paralelo.
type StubProductClient struct {
	Products map[string]*sharedEvents.ProductSnapshot
	Err      error
	Calls    int32
}

var _ orderDomain.ProductClient = (*StubProductClient)(nil)

func (c *StubProductClient) GetProduct(ctx context.Context, productID string) (*sharedEvents.ProductSnapshot, error) {
	atomic.AddInt32(&c.Calls, 1)
	if c.Err != nil {
		return nil, c.Err
	}
	p, ok := c.Products[productID]
	if !ok {
		return nil, orderDomain.ErrProductGone
	}
	return p, nil
}
