package events

import "time"

// PaymentSnapshot es el documento completo del pago.
type PaymentSnapshot struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Provider  string    `json:"provider,omitempty"`  // pasarela externa
	PaymentID string    `json:"paymentId,omitempty"` // id asignado por la pasarela
	Status    string    `json:"status"`              // INITIATED | SUCCESSFUL
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentNotificationSnapshot viaja por PAYMENT_NOTIFICATION.PAYMENT_SUCCESSFUL.
type PaymentNotificationSnapshot struct {
	OrderID   string           `json:"orderId"`
	User      CustomerSnapshot `json:"user"`
	Amount    float64          `json:"amount"`
	Currency  string           `json:"currency"`
	PaymentID string           `json:"paymentId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
