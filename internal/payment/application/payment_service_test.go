package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	paymentDomain "github.com/davicafu/tiendalab/internal/payment/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	"github.com/davicafu/tiendalab/tests/mocks"
)

var payer = paymentDomain.Customer{Name: "Ana", Email: "ana@example.com"}

func TestInitiatePayment_PublishesIntent(t *testing.T) {
	repo := mocks.NewInMemoryPaymentRepo()
	service := NewPaymentService(repo, zap.NewNop())

	p, err := service.InitiatePayment(context.Background(), "order-1", "user-1", payer, 160, "INR", "stripe")
	assert.NoError(t, err)
	assert.Equal(t, paymentDomain.PaymentInitiated, p.Status)
	assert.Equal(t, "ana@example.com", p.Customer.Email)

	assert.Len(t, repo.Outbox, 1)
	assert.Equal(t, sharedEvents.PaymentInitiated, repo.Outbox[0].EventType)
}

func TestConfirmPayment_NotificationCarriesRecipient(t *testing.T) {
	repo := mocks.NewInMemoryPaymentRepo()
	service := NewPaymentService(repo, zap.NewNop())

	p, err := service.InitiatePayment(context.Background(), "order-1", "user-1", payer, 160, "INR", "stripe")
	assert.NoError(t, err)

	confirmed, err := service.ConfirmPayment(context.Background(), p.ID, "pi_123")
	assert.NoError(t, err)
	assert.Equal(t, paymentDomain.PaymentSuccessful, confirmed.Status)
	assert.Equal(t, "pi_123", confirmed.PaymentID)

	// El contacto capturado al iniciar el cobro sobrevive hasta la
	// confirmación, que llega por webhook sin contexto de usuario.
	var notif *sharedEvents.PaymentNotificationSnapshot
	for _, evt := range repo.Outbox {
		if evt.EventType == sharedEvents.PaymentSuccessfulNotif {
			snap, ok := evt.Payload.(sharedEvents.PaymentNotificationSnapshot)
			assert.True(t, ok)
			notif = &snap
		}
	}
	if assert.NotNil(t, notif) {
		assert.Equal(t, "order-1", notif.OrderID)
		assert.Equal(t, "user-1", notif.User.ID)
		assert.Equal(t, "Ana", notif.User.Name)
		assert.Equal(t, "ana@example.com", notif.User.Email)
	}
}

func TestConfirmPayment_DuplicateWebhookIsIdempotent(t *testing.T) {
	repo := mocks.NewInMemoryPaymentRepo()
	service := NewPaymentService(repo, zap.NewNop())

	p, err := service.InitiatePayment(context.Background(), "order-1", "user-1", payer, 160, "INR", "stripe")
	assert.NoError(t, err)

	_, err = service.ConfirmPayment(context.Background(), p.ID, "pi_123")
	assert.NoError(t, err)
	published := len(repo.Outbox)

	// La pasarela reintenta el webhook: no se vuelve a publicar nada.
	again, err := service.ConfirmPayment(context.Background(), p.ID, "pi_123")
	assert.NoError(t, err)
	assert.Equal(t, paymentDomain.PaymentSuccessful, again.Status)
	assert.Len(t, repo.Outbox, published)
}

func TestConfirmPayment_UnknownPayment(t *testing.T) {
	repo := mocks.NewInMemoryPaymentRepo()
	service := NewPaymentService(repo, zap.NewNop())

	_, err := service.ConfirmPayment(context.Background(), "missing", "pi_123")
	assert.ErrorIs(t, err, paymentDomain.ErrPaymentNotFound)
}
