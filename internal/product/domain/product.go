package domain

import (
	"time"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// Price es el precio del producto. DiscountPrice es opcional; cuando existe
// es el precio efectivo de venta.
type Price struct {
	Amount        float64  `json:"amount"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Currency      string   `json:"currency"`
}

// Product representa un producto del catálogo.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Price       Price     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot construye el contrato de integración con el documento completo.
// Se publica entero en cada creación y actualización: los consumidores no
// necesitan estado previo para proyectarlo.
func (p *Product) Snapshot() sharedEvents.ProductSnapshot {
	return sharedEvents.ProductSnapshot{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		Price: sharedEvents.Price{
			Amount:        p.Price.Amount,
			DiscountPrice: p.Price.DiscountPrice,
			Currency:      p.Price.Currency,
		},
	}
}

// StockSnapshot construye la actualización parcial de stock.
func (p *Product) StockSnapshot() sharedEvents.StockSnapshot {
	return sharedEvents.StockSnapshot{ID: p.ID, Stock: p.Stock}
}
