package domain

import "time"

// Proyecciones de solo lectura del dashboard de vendedor. Cada registro es
// la copia local del último snapshot recibido; el servicio propietario de la
// entidad sigue siendo la fuente de verdad.

// ProductProjection es la copia local del producto del catálogo.
type ProductProjection struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"seller_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	PriceAmount   float64   `json:"price_amount"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderProjection es la copia local del pedido.
type OrderProjection struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ItemCount   int       `json:"item_count"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaymentProjection es la copia local del pago.
type PaymentProjection struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventLogEntry es el registro crudo de cada mensaje recibido, para análisis
// posterior del tráfico de integración.
type EventLogEntry struct {
	Queue       string    `json:"queue"`
	AggregateID string    `json:"aggregate_id"`
	Payload     string    `json:"payload"`
	ReceivedAt  time.Time `json:"received_at"`
}
