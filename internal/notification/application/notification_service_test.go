package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	"github.com/davicafu/tiendalab/tests/mocks"
)

func TestNotifyOrderCreated(t *testing.T) {
	mailer := &mocks.RecordingMailer{}
	service := NewNotificationService(mailer, zap.NewNop())

	service.NotifyOrderCreated(context.Background(), sharedEvents.OrderNotificationSnapshot{
		OrderID:    "o1",
		Customer:   sharedEvents.CustomerSnapshot{ID: "u1", Name: "Ana", Email: "ana@example.com"},
		TotalPrice: sharedEvents.TotalSnapshot{Amount: 160, Currency: "INR"},
	})

	assert.Equal(t, 1, mailer.Count())
	msg := mailer.Sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Subject, "o1")
	assert.Contains(t, msg.Body, "Ana")
	assert.Contains(t, msg.Body, "160.00 INR")
}

func TestNotify_MissingFieldsRendersDefaults(t *testing.T) {
	mailer := &mocks.RecordingMailer{}
	service := NewNotificationService(mailer, zap.NewNop())

	// Snapshot incompleto: sin nombre ni id de pedido, pero con email.
	service.NotifyOrderCancelled(context.Background(), sharedEvents.OrderNotificationSnapshot{
		Customer: sharedEvents.CustomerSnapshot{Email: "ana@example.com"},
	})

	assert.Equal(t, 1, mailer.Count())
	msg := mailer.Sent[0]
	assert.Contains(t, msg.Body, "customer")
	assert.Contains(t, msg.Body, "your order")
}

func TestNotify_WithoutRecipientSkips(t *testing.T) {
	mailer := &mocks.RecordingMailer{}
	service := NewNotificationService(mailer, zap.NewNop())

	service.NotifyUserCreated(context.Background(), sharedEvents.UserSnapshot{Name: "Ana"})

	// Sin destinatario no hay envío, y tampoco error.
	assert.Zero(t, mailer.Count())
}

func TestNotify_SendFailureIsAbsorbed(t *testing.T) {
	mailer := &mocks.RecordingMailer{Err: errors.New("smtp is down")}
	service := NewNotificationService(mailer, zap.NewNop())

	// El fallo del mailer se registra y se descarta: no hay pánico ni reintento.
	service.NotifyPaymentSuccessful(context.Background(), sharedEvents.PaymentNotificationSnapshot{
		OrderID: "o1",
		User:    sharedEvents.CustomerSnapshot{Email: "ana@example.com"},
		Amount:  45,
	})

	assert.Zero(t, mailer.Count())
}

func TestNotifyUserCreated(t *testing.T) {
	mailer := &mocks.RecordingMailer{}
	service := NewNotificationService(mailer, zap.NewNop())

	service.NotifyUserCreated(context.Background(), sharedEvents.UserSnapshot{
		Name:  "Ana",
		Email: "ana@example.com",
	})

	assert.Equal(t, 1, mailer.Count())
	assert.Equal(t, "Welcome to our store", mailer.Sent[0].Subject)
}
