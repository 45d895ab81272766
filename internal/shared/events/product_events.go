package events

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos, con los nombres
// de campo del formato de cable (el catálogo original es un documento).

// Price es el precio de un producto tal y como viaja en los snapshots.
type Price struct {
	Amount        float64  `json:"amount"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Currency      string   `json:"currency"`
}

// Unit devuelve el precio efectivo por unidad: discountPrice si existe.
func (p Price) Unit() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Amount
}

// ProductSnapshot es el documento completo del producto.
type ProductSnapshot struct {
	ID          string `json:"_id"`
	SellerID    string `json:"sellerId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock"`
	Price       Price  `json:"price"`
}

// ProductDeletedSnapshot identifica el producto eliminado.
type ProductDeletedSnapshot struct {
	ID string `json:"_id"`
}

// StockSnapshot es la actualización parcial de stock.
type StockSnapshot struct {
	ID    string `json:"_id"`
	Stock int    `json:"stock"`
}
