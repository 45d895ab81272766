package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	notifDomain "github.com/davicafu/tiendalab/internal/notification/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// NotificationService renderiza y envía los correos del sistema. El render
// es defensivo: un snapshot con campos vacíos produce un correo genérico,
// nunca un fallo. El envío es best-effort: si el mailer falla se registra
// y el mensaje no se reintenta.
type NotificationService struct {
	mailer notifDomain.Mailer
	log    *zap.Logger
}

func NewNotificationService(mailer notifDomain.Mailer, log *zap.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, log: log}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// send entrega el correo y absorbe el fallo: un mail perdido no debe
// bloquear la cola ni reencolar el evento.
func (s *NotificationService) send(ctx context.Context, kind string, msg notifDomain.Message) {
	if msg.To == "" {
		s.log.Warn("Notification without recipient, skipping", zap.String("kind", kind))
		return
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn("Failed to send notification",
			zap.String("kind", kind),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return
	}

	s.log.Info("📬 Notificación enviada", zap.String("kind", kind), zap.String("to", msg.To))
}

// NotifyUserCreated da la bienvenida a un usuario recién registrado.
func (s *NotificationService) NotifyUserCreated(ctx context.Context, evt sharedEvents.UserSnapshot) {
	name := orDefault(evt.Name, "customer")
	s.send(ctx, "user_created", notifDomain.Message{
		To:      evt.Email,
		Subject: "Welcome to our store",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy shopping!", name),
	})
}

// NotifyPasswordChanged avisa de un cambio de contraseña.
func (s *NotificationService) NotifyPasswordChanged(ctx context.Context, evt sharedEvents.UserSnapshot) {
	name := orDefault(evt.Name, "customer")
	s.send(ctx, "password_changed", notifDomain.Message{
		To:      evt.Email,
		Subject: "Your password was changed",
		Body:    fmt.Sprintf("Hi %s,\n\nYour password was just changed. If this wasn't you, contact support immediately.", name),
	})
}

// NotifyOrderCreated confirma la recepción del pedido.
func (s *NotificationService) NotifyOrderCreated(ctx context.Context, evt sharedEvents.OrderNotificationSnapshot) {
	name := orDefault(evt.Customer.Name, "customer")
	orderID := orDefault(evt.OrderID, "your order")
	s.send(ctx, "order_created", notifDomain.Message{
		To:      evt.Customer.Email,
		Subject: fmt.Sprintf("Order %s received", orderID),
		Body: fmt.Sprintf("Hi %s,\n\nWe received your order %s for %.2f %s. We'll let you know when it ships.",
			name, orderID, evt.TotalPrice.Amount, orDefault(evt.TotalPrice.Currency, "")),
	})
}

// NotifyOrderCancelled confirma la cancelación del pedido.
func (s *NotificationService) NotifyOrderCancelled(ctx context.Context, evt sharedEvents.OrderNotificationSnapshot) {
	name := orDefault(evt.Customer.Name, "customer")
	orderID := orDefault(evt.OrderID, "your order")
	s.send(ctx, "order_cancelled", notifDomain.Message{
		To:      evt.Customer.Email,
		Subject: fmt.Sprintf("Order %s cancelled", orderID),
		Body:    fmt.Sprintf("Hi %s,\n\nYour order %s has been cancelled.", name, orderID),
	})
}

// NotifyOrderDelivered confirma la entrega del pedido.
func (s *NotificationService) NotifyOrderDelivered(ctx context.Context, evt sharedEvents.OrderNotificationSnapshot) {
	name := orDefault(evt.Customer.Name, "customer")
	orderID := orDefault(evt.OrderID, "your order")
	s.send(ctx, "order_delivered", notifDomain.Message{
		To:      evt.Customer.Email,
		Subject: fmt.Sprintf("Order %s delivered", orderID),
		Body:    fmt.Sprintf("Hi %s,\n\nYour order %s has been delivered. Enjoy!", name, orderID),
	})
}

// NotifyPaymentSuccessful confirma el cobro del pedido.
func (s *NotificationService) NotifyPaymentSuccessful(ctx context.Context, evt sharedEvents.PaymentNotificationSnapshot) {
	name := orDefault(evt.User.Name, "customer")
	orderID := orDefault(evt.OrderID, "your order")
	s.send(ctx, "payment_successful", notifDomain.Message{
		To:      evt.User.Email,
		Subject: fmt.Sprintf("Payment received for order %s", orderID),
		Body: fmt.Sprintf("Hi %s,\n\nWe received your payment of %.2f %s for order %s. Thank you!",
			name, evt.Amount, orDefault(evt.Currency, ""), orderID),
	})
}
