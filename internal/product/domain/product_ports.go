package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrProductNotFound = errors.New("product not found")
)

// ---------- Interfaces (Ports) ----------

// ProductRepository define las operaciones persistentes para Product.
// Las escrituras insertan el producto y sus eventos de outbox en la
// misma transacción.
type ProductRepository interface {
	Create(ctx context.Context, p *Product, evts []sharedDomain.OutboxEvent) error

	// Debe devolver ErrProductNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Product, error)

	Update(ctx context.Context, p *Product, evts []sharedDomain.OutboxEvent) error

	// DeleteByID debe devolver ErrProductNotFound si el producto no existe.
	DeleteByID(ctx context.Context, id string, evts []sharedDomain.OutboxEvent) error

	// DecrementStock descuenta qty unidades de forma atómica y devuelve el
	// producto resultante. El stock puede quedar negativo: la validación
	// de compra ocurre antes, en el orquestador de pedidos.
	DecrementStock(ctx context.Context, id string, qty int, evts func(p *Product) []sharedDomain.OutboxEvent) (*Product, error)

	ListBySeller(ctx context.Context, sellerID string) ([]*Product, error)
}
