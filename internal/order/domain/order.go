package domain

import (
	"time"

	"github.com/google/uuid"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// OrderStatus es el estado del pedido. El orquestador solo garantiza el
// estado inicial PENDING; el resto de transiciones llegan por la API.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// CanTransition valida la máquina de estados:
// PENDING → CONFIRMED → SHIPPED → DELIVERED, y cancelación desde
// cualquier estado no terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch next {
	case OrderConfirmed:
		return s == OrderPending
	case OrderShipped:
		return s == OrderConfirmed
	case OrderDelivered:
		return s == OrderShipped
	case OrderCancelled:
		return s == OrderPending || s == OrderConfirmed || s == OrderShipped
	}
	return false
}

// Money es un importe con su divisa.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Address es la dirección de envío del pedido.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer son los datos de contacto del comprador, capturados al crear el
// pedido. Sin ellos las colas ORDER_NOTIFICATION.* no tendrían destinatario.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderItem es una línea del pedido con el precio unitario ya resuelto
// (discountPrice si existía, amount si no).
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
}

// Order representa un pedido del sistema.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	UserID          string      `json:"user_id"`
	Customer        Customer    `json:"customer"`
	Items           []OrderItem `json:"items"`
	TotalPrice      Money       `json:"total_price"`
	ShippingAddress Address     `json:"shipping_address"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Snapshot construye el contrato de integración con el documento completo.
func (o *Order) Snapshot() sharedEvents.OrderSnapshot {
	items := make([]sharedEvents.OrderItemSnapshot, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, sharedEvents.OrderItemSnapshot{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price: sharedEvents.Price{
				Amount:   it.Price.Amount,
				Currency: it.Price.Currency,
			},
		})
	}

	return sharedEvents.OrderSnapshot{
		ID:     o.ID.String(),
		UserID: o.UserID,
		Items:  items,
		TotalPrice: sharedEvents.TotalSnapshot{
			Amount:   o.TotalPrice.Amount,
			Currency: o.TotalPrice.Currency,
		},
		ShippingAddress: o.addressSnapshot(),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

// StatusSnapshot construye la actualización parcial de estado.
func (o *Order) StatusSnapshot() sharedEvents.OrderStatusSnapshot {
	return sharedEvents.OrderStatusSnapshot{
		ID:     o.ID.String(),
		Status: string(o.Status),
	}
}

// StockSnapshot construye el evento mínimo para decrementar stock.
func (o *Order) StockSnapshot() sharedEvents.OrderPlacedSnapshot {
	lines := make([]sharedEvents.OrderStockLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, sharedEvents.OrderStockLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return sharedEvents.OrderPlacedSnapshot{OrderID: o.ID.String(), Items: lines}
}

// NotificationSnapshot construye el contrato para las colas ORDER_NOTIFICATION.*.
func (o *Order) NotificationSnapshot() sharedEvents.OrderNotificationSnapshot {
	return sharedEvents.OrderNotificationSnapshot{
		OrderID: o.ID.String(),
		Customer: sharedEvents.CustomerSnapshot{
			ID:    o.UserID,
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
		},
		ShippingAddress: o.addressSnapshot(),
		TotalPrice: sharedEvents.TotalSnapshot{
			Amount:   o.TotalPrice.Amount,
			Currency: o.TotalPrice.Currency,
		},
		CreatedAt: o.CreatedAt,
	}
}

func (o *Order) addressSnapshot() sharedEvents.AddressSnapshot {
	return sharedEvents.AddressSnapshot{
		Address:    o.ShippingAddress.Address,
		City:       o.ShippingAddress.City,
		PostalCode: o.ShippingAddress.PostalCode,
		Country:    o.ShippingAddress.Country,
	}
}
