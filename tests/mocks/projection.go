package mocks

import (
	"context"
	"sync"
	"time"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
)

// InMemoryProjectionRepo es un repositorio de proyecciones en memoria con la
// misma semántica que los adaptadores reales: inserts que fallan en
// duplicado, merges upsert y borrados idempotentes.
type InMemoryProjectionRepo struct {
	mu       sync.Mutex
	Products map[string]dashDomain.ProductProjection
	Orders   map[string]dashDomain.OrderProjection
	Payments map[string]dashDomain.PaymentProjection
}

var _ dashDomain.ProjectionRepository = (*InMemoryProjectionRepo)(nil)

func NewInMemoryProjectionRepo() *InMemoryProjectionRepo {
	return &InMemoryProjectionRepo{
		Products: make(map[string]dashDomain.ProductProjection),
		Orders:   make(map[string]dashDomain.OrderProjection),
		Payments: make(map[string]dashDomain.PaymentProjection),
	}
}

func (r *InMemoryProjectionRepo) InsertProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Products[p.ID]; ok {
		return dashDomain.ErrDuplicateProjection
	}
	r.Products[p.ID] = p
	return nil
}

func (r *InMemoryProjectionRepo) MergeProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Products[p.ID] = p
	return nil
}

func (r *InMemoryProjectionRepo) UpdateProductStock(ctx context.Context, id string, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.Products[id] // cero-valor si no existía: merge parcial
	p.ID = id
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	r.Products[id] = p
	return nil
}

func (r *InMemoryProjectionRepo) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Products, id)
	return nil
}

func (r *InMemoryProjectionRepo) InsertOrder(ctx context.Context, o dashDomain.OrderProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Orders[o.ID]; ok {
		return dashDomain.ErrDuplicateProjection
	}
	r.Orders[o.ID] = o
	return nil
}

func (r *InMemoryProjectionRepo) UpdateOrderStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.Orders[id]
	o.ID = id
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.Orders[id] = o
	return nil
}

func (r *InMemoryProjectionRepo) InsertPayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Payments[p.ID]; ok {
		return dashDomain.ErrDuplicateProjection
	}
	r.Payments[p.ID] = p
	return nil
}

func (r *InMemoryProjectionRepo) MergePayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Payments[p.ID] = p
	return nil
}

func (r *InMemoryProjectionRepo) GetProduct(ctx context.Context, id string) (*dashDomain.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Products[id]
	if !ok {
		return nil, dashDomain.ErrProjectionNotFound
	}
	return &p, nil
}

func (r *InMemoryProjectionRepo) ListProductsBySeller(ctx context.Context, sellerID string) ([]dashDomain.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var products []dashDomain.ProductProjection
	for _, p := range r.Products {
		if p.SellerID == sellerID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *InMemoryProjectionRepo) GetOrder(ctx context.Context, id string) (*dashDomain.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.Orders[id]
	if !ok {
		return nil, dashDomain.ErrProjectionNotFound
	}
	return &o, nil
}

func (r *InMemoryProjectionRepo) ListOrders(ctx context.Context, limit int) ([]dashDomain.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []dashDomain.OrderProjection
	for _, o := range r.Orders {
		if len(orders) == limit {
			break
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *InMemoryProjectionRepo) ListPayments(ctx context.Context, limit int) ([]dashDomain.PaymentProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var payments []dashDomain.PaymentProjection
	for _, p := range r.Payments {
		if len(payments) == limit {
			break
		}
		payments = append(payments, p)
	}
	return payments, nil
}
