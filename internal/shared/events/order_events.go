package events

import "time"

// OrderItemSnapshot es una línea del pedido con su precio ya resuelto.
type OrderItemSnapshot struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     Price  `json:"price"`
}

// TotalSnapshot es el total calculado del pedido.
type TotalSnapshot struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// AddressSnapshot es la dirección de envío.
type AddressSnapshot struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CustomerSnapshot identifica al comprador para notificaciones.
type CustomerSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// OrderSnapshot es el documento completo del pedido.
type OrderSnapshot struct {
	ID              string              `json:"_id"`
	UserID          string              `json:"userId"`
	Items           []OrderItemSnapshot `json:"items"`
	TotalPrice      TotalSnapshot       `json:"totalPrice"`
	ShippingAddress AddressSnapshot     `json:"shippingAddress"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// OrderStatusSnapshot es la actualización parcial de estado.
type OrderStatusSnapshot struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

// OrderStockLine es lo mínimo que necesita el product-service para
// decrementar stock tras un pedido.
type OrderStockLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderPlacedSnapshot viaja por ORDER_PRODUCT.ORDER_CREATED.
type OrderPlacedSnapshot struct {
	OrderID string           `json:"orderId"`
	Items   []OrderStockLine `json:"items"`
}

// OrderNotificationSnapshot viaja por las colas ORDER_NOTIFICATION.*.
type OrderNotificationSnapshot struct {
	OrderID         string           `json:"orderId"`
	Customer        CustomerSnapshot `json:"customer"`
	ShippingAddress AddressSnapshot  `json:"shippingAddress"`
	TotalPrice      TotalSnapshot    `json:"totalPrice"`
	CreatedAt       time.Time        `json:"createdAt"`
}
