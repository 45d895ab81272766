package mocks

import (
	"context"
	"sync"

	productDomain "github.com/davicafu/tiendalab/internal/product/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
)

// InMemoryProductRepo es un repositorio de catálogo en memoria para tests.
type InMemoryProductRepo struct {
	mu       sync.Mutex
	Products map[string]*productDomain.Product
	Outbox   []sharedDomain.OutboxEvent
}

var _ productDomain.ProductRepository = (*InMemoryProductRepo)(nil)

func NewInMemoryProductRepo() *InMemoryProductRepo {
	return &InMemoryProductRepo{
		Products: make(map[string]*productDomain.Product),
	}
}

func (r *InMemoryProductRepo) Create(ctx context.Context, p *productDomain.Product, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *p
	r.Products[p.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryProductRepo) GetByID(ctx context.Context, id string) (*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Products[id]
	if !ok {
		return nil, productDomain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *InMemoryProductRepo) Update(ctx context.Context, p *productDomain.Product, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Products[p.ID]; !ok {
		return productDomain.ErrProductNotFound
	}
	copied := *p
	r.Products[p.ID] = &copied
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryProductRepo) DeleteByID(ctx context.Context, id string, evts []sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Products[id]; !ok {
		return productDomain.ErrProductNotFound
	}
	delete(r.Products, id)
	r.Outbox = append(r.Outbox, evts...)
	return nil
}

func (r *InMemoryProductRepo) DecrementStock(ctx context.Context, id string, qty int, evts func(p *productDomain.Product) []sharedDomain.OutboxEvent) (*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Products[id]
	if !ok {
		return nil, productDomain.ErrProductNotFound
	}
	p.Stock -= qty
	r.Outbox = append(r.Outbox, evts(p)...)

	copied := *p
	return &copied, nil
}

func (r *InMemoryProductRepo) ListBySeller(ctx context.Context, sellerID string) ([]*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var products []*productDomain.Product
	for _, p := range r.Products {
		if p.SellerID == sellerID {
			copied := *p
			products = append(products, &copied)
		}
	}
	return products, nil
}
