package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// ---------- Errores de dominio ----------
var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductGone lo devuelve el colaborador de catálogo cuando el
	// producto ya no existe aguas arriba.
	ErrProductGone = errors.New("product not found upstream")

	// ErrEmptyCart: el carrito no tiene líneas; no se hace ninguna
	// llamada más ni se crea pedido.
	ErrEmptyCart = sharedDomain.NewBusinessError("EMPTY_CART", "the cart has no items")
)

// NewProductNotFound señala una línea del carrito sin snapshot de producto.
func NewProductNotFound(productID string) *sharedDomain.BusinessError {
	return sharedDomain.NewBusinessError("PRODUCT_NOT_FOUND",
		fmt.Sprintf("product %s not found", productID))
}

// NewInsufficientStock aborta el pedido completo nombrando el producto
// ofensor; no se crea pedido parcial.
func NewInsufficientStock(productName string, requested, available int) *sharedDomain.BusinessError {
	return sharedDomain.NewBusinessError("INSUFFICIENT_STOCK",
		fmt.Sprintf("insufficient stock for %s: requested %d, available %d", productName, requested, available))
}

// NewInvalidTransition rechaza un cambio de estado fuera de la máquina.
func NewInvalidTransition(from, to OrderStatus) *sharedDomain.BusinessError {
	return sharedDomain.NewBusinessError("INVALID_STATUS_TRANSITION",
		fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

// ---------- Interfaces (Ports) ----------

// OrderRepository define las operaciones persistentes para Order.
// Las escrituras insertan el pedido y sus eventos de outbox en la
// misma transacción.
type OrderRepository interface {
	Create(ctx context.Context, o *Order, evts []sharedDomain.OutboxEvent) error

	// Debe devolver ErrOrderNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateStatus persiste el nuevo estado junto a sus eventos.
	// Debe devolver ErrOrderNotFound si el pedido no existe.
	UpdateStatus(ctx context.Context, o *Order, evts []sharedDomain.OutboxEvent) error

	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}

// ---------- Colaboradores externos ----------

// CartItem es una línea del carrito tal y como la devuelve el colaborador.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart es el snapshot del carrito del comprador.
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartClient lee el carrito del comprador en el servicio de carritos.
type CartClient interface {
	GetCart(ctx context.Context, userID, token string) (*Cart, error)
}

// ProductClient lee snapshots de producto en el servicio de catálogo.
// Debe devolver ErrProductGone si el producto no existe.
type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*sharedEvents.ProductSnapshot, error)
}
