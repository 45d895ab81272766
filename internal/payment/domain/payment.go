package domain

import (
	"errors"
	"time"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// PaymentStatus es el estado del pago tal y como lo reporta la pasarela.
type PaymentStatus string

const (
	PaymentInitiated  PaymentStatus = "INITIATED"
	PaymentSuccessful PaymentStatus = "SUCCESSFUL"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Customer son los datos de contacto del pagador, capturados al iniciar el
// cobro. Sin ellos PAYMENT_NOTIFICATION.* no tendría destinatario.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payment representa un intento de cobro contra la pasarela externa.
type Payment struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"order_id"`
	UserID    string        `json:"user_id"`
	Customer  Customer      `json:"customer"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Provider  string        `json:"provider,omitempty"`
	PaymentID string        `json:"payment_id,omitempty"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot construye el contrato de integración del pago.
func (p *Payment) Snapshot() sharedEvents.PaymentSnapshot {
	return sharedEvents.PaymentSnapshot{
		ID:        p.ID,
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Provider:  p.Provider,
		PaymentID: p.PaymentID,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// NotificationSnapshot construye el contrato para PAYMENT_NOTIFICATION.*.
func (p *Payment) NotificationSnapshot() sharedEvents.PaymentNotificationSnapshot {
	return sharedEvents.PaymentNotificationSnapshot{
		OrderID: p.OrderID,
		User: sharedEvents.CustomerSnapshot{
			ID:    p.UserID,
			Name:  p.Customer.Name,
			Email: p.Customer.Email,
		},
		Amount:    p.Amount,
		Currency:  p.Currency,
		PaymentID: p.PaymentID,
		CreatedAt: p.CreatedAt,
	}
}
