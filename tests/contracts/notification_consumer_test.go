package contracts

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	notifApp "github.com/davicafu/tiendalab/internal/notification/application"
	notifConsumer "github.com/davicafu/tiendalab/internal/notification/infra/inbound/events"
	orderApp "github.com/davicafu/tiendalab/internal/order/application"
	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	paymentApp "github.com/davicafu/tiendalab/internal/payment/application"
	paymentDomain "github.com/davicafu/tiendalab/internal/payment/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	"github.com/davicafu/tiendalab/tests/mocks"
)

// findOutbox devuelve el primer evento de outbox publicado en la cola dada.
func findOutbox(t *testing.T, outbox []sharedDomain.OutboxEvent, queue string) sharedDomain.OutboxEvent {
	t.Helper()
	for _, evt := range outbox {
		if evt.EventType == queue {
			return evt
		}
	}
	t.Fatalf("no outbox event for queue %s", queue)
	return sharedDomain.OutboxEvent{}
}

func TestNotificationConsumer_OrderCreatedContract(t *testing.T) {
	ctx := context.Background()
	mailer := &mocks.RecordingMailer{}
	service := notifApp.NewNotificationService(mailer, zap.NewNop())
	consumer := notifConsumer.NewNotificationConsumer(service, zap.NewNop())

	payload := []byte(`{
		"orderId": "order-1",
		"customer": {"id": "u1", "name": "Ana", "email": "ana@example.com"},
		"shippingAddress": {"city": "Madrid", "country": "ES"},
		"totalPrice": {"amount": 160, "currency": "INR"},
		"createdAt": "2025-11-02T10:00:00Z"
	}`)

	decision := consumer.HandleMessage(ctx, sharedEvents.OrderCreatedNotif, payload)
	assert.Equal(t, sharedBus.Ack, decision)

	assert.Equal(t, 1, mailer.Count())
	assert.Equal(t, "ana@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, "order-1")
}

func TestNotificationConsumer_UserCreatedContract(t *testing.T) {
	ctx := context.Background()
	mailer := &mocks.RecordingMailer{}
	service := notifApp.NewNotificationService(mailer, zap.NewNop())
	consumer := notifConsumer.NewNotificationConsumer(service, zap.NewNop())

	payload := []byte(`{"name": "Ana", "email": "ana@example.com", "username": "ana88"}`)

	decision := consumer.HandleMessage(ctx, sharedEvents.UserCreatedNotif, payload)
	assert.Equal(t, sharedBus.Ack, decision)
	assert.Equal(t, 1, mailer.Count())
}

func TestOrderCreatedNotification_EndToEnd(t *testing.T) {
	ctx := context.Background()

	// Productor: pedido real creado a través del servicio de pedidos.
	repo := mocks.NewInMemoryOrderRepo()
	orders := orderApp.NewOrderService(repo,
		&mocks.StubCartClient{Cart: &orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 2}}}},
		&mocks.StubProductClient{Products: map[string]*sharedEvents.ProductSnapshot{
			"p1": {ID: "p1", Name: "Camiseta", Stock: 10, Price: sharedEvents.Price{Amount: 80, Currency: "INR"}},
		}},
		"INR", zap.NewNop())

	order, err := orders.CreateOrder(ctx, "user-1", "token", "",
		orderDomain.Customer{Name: "Ana", Email: "ana@example.com"}, orderDomain.Address{City: "Madrid"})
	assert.NoError(t, err)

	evt := findOutbox(t, repo.Outbox, sharedEvents.OrderCreatedNotif)
	wire, err := json.Marshal(evt.Payload)
	assert.NoError(t, err)

	// Consumidor: los bytes que publica el relayer producen un correo real.
	mailer := &mocks.RecordingMailer{}
	consumer := notifConsumer.NewNotificationConsumer(notifApp.NewNotificationService(mailer, zap.NewNop()), zap.NewNop())

	decision := consumer.HandleMessage(ctx, sharedEvents.OrderCreatedNotif, wire)
	assert.Equal(t, sharedBus.Ack, decision)
	assert.Equal(t, 1, mailer.Count())
	assert.Equal(t, "ana@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, order.ID.String())
}

func TestPaymentSuccessfulNotification_EndToEnd(t *testing.T) {
	ctx := context.Background()

	repo := mocks.NewInMemoryPaymentRepo()
	payments := paymentApp.NewPaymentService(repo, zap.NewNop())

	p, err := payments.InitiatePayment(ctx, "order-1", "user-1",
		paymentDomain.Customer{Name: "Ana", Email: "ana@example.com"}, 160, "INR", "stripe")
	assert.NoError(t, err)
	_, err = payments.ConfirmPayment(ctx, p.ID, "pi_123")
	assert.NoError(t, err)

	evt := findOutbox(t, repo.Outbox, sharedEvents.PaymentSuccessfulNotif)
	wire, err := json.Marshal(evt.Payload)
	assert.NoError(t, err)

	mailer := &mocks.RecordingMailer{}
	consumer := notifConsumer.NewNotificationConsumer(notifApp.NewNotificationService(mailer, zap.NewNop()), zap.NewNop())

	decision := consumer.HandleMessage(ctx, sharedEvents.PaymentSuccessfulNotif, wire)
	assert.Equal(t, sharedBus.Ack, decision)
	assert.Equal(t, 1, mailer.Count())
	assert.Equal(t, "ana@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, "order-1")
}

func TestNotificationConsumer_SendFailureStillAcks(t *testing.T) {
	ctx := context.Background()
	mailer := &mocks.RecordingMailer{Err: assert.AnError}
	service := notifApp.NewNotificationService(mailer, zap.NewNop())
	consumer := notifConsumer.NewNotificationConsumer(service, zap.NewNop())

	payload := []byte(`{"orderId": "o1", "user": {"email": "ana@example.com"}, "amount": 45, "currency": "INR"}`)

	// El envío es best-effort: el fallo del mailer no reencola el evento.
	decision := consumer.HandleMessage(ctx, sharedEvents.PaymentSuccessfulNotif, payload)
	assert.Equal(t, sharedBus.Ack, decision)
	assert.Zero(t, mailer.Count())
}

func TestNotificationConsumer_MalformedPayloadDrops(t *testing.T) {
	ctx := context.Background()
	mailer := &mocks.RecordingMailer{}
	service := notifApp.NewNotificationService(mailer, zap.NewNop())
	consumer := notifConsumer.NewNotificationConsumer(service, zap.NewNop())

	decision := consumer.HandleMessage(ctx, sharedEvents.OrderDeliveredNotif, []byte(`not json`))
	assert.Equal(t, sharedBus.Drop, decision)
	assert.Zero(t, mailer.Count())
}
