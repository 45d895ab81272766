package contracts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	dashApp "github.com/davicafu/tiendalab/internal/dashboard/application"
	dashConsumer "github.com/davicafu/tiendalab/internal/dashboard/infra/inbound/events"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	"github.com/davicafu/tiendalab/tests/mocks"
)

// Verifica que el proyector entiende los payloads JSON tal y como los
// publican los otros servicios, sin pasar por los structs de Go.
func TestDashboardConsumer_ProductContract(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewInMemoryProjectionRepo()
	service := dashApp.NewProjectionService(repo, mocks.NewDummyCache(), zap.NewNop())
	consumer := dashConsumer.NewDashboardConsumer(service, nil, zap.NewNop())

	created := []byte(`{
		"_id": "prod-1",
		"sellerId": "seller-9",
		"name": "Camiseta",
		"description": "Algodón",
		"category": "ropa",
		"stock": 12,
		"price": {"amount": 100, "discountPrice": 80, "currency": "INR"}
	}`)

	decision := consumer.HandleMessage(ctx, sharedEvents.ProductCreated, created)
	assert.Equal(t, sharedBus.Ack, decision)

	p, err := repo.GetProduct(ctx, "prod-1")
	assert.NoError(t, err)
	assert.Equal(t, "seller-9", p.SellerID)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, 100.0, p.PriceAmount)
	if assert.NotNil(t, p.DiscountPrice) {
		assert.Equal(t, 80.0, *p.DiscountPrice)
	}

	// Actualización parcial de stock: solo {_id, stock}.
	decision = consumer.HandleMessage(ctx, sharedEvents.DecreaseStocks, []byte(`{"_id": "prod-1", "stock": 10}`))
	assert.Equal(t, sharedBus.Ack, decision)

	p, _ = repo.GetProduct(ctx, "prod-1")
	assert.Equal(t, 10, p.Stock)

	// Borrado: solo {_id}.
	decision = consumer.HandleMessage(ctx, sharedEvents.ProductDeleted, []byte(`{"_id": "prod-1"}`))
	assert.Equal(t, sharedBus.Ack, decision)

	_, err = repo.GetProduct(ctx, "prod-1")
	assert.Error(t, err)
}

func TestDashboardConsumer_DuplicateCreateRequeues(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewInMemoryProjectionRepo()
	service := dashApp.NewProjectionService(repo, mocks.NewDummyCache(), zap.NewNop())
	consumer := dashConsumer.NewDashboardConsumer(service, nil, zap.NewNop())

	payload := []byte(`{"_id": "prod-1", "sellerId": "s1", "name": "Taza", "stock": 5, "price": {"amount": 10, "currency": "INR"}}`)

	assert.Equal(t, sharedBus.Ack, consumer.HandleMessage(ctx, sharedEvents.ProductCreated, payload))

	// La reentrega del mismo PRODUCT_CREATED no se confirma: vuelve a la
	// cola y, agotados los reintentos, acabará en la DLQ.
	assert.Equal(t, sharedBus.Requeue, consumer.HandleMessage(ctx, sharedEvents.ProductCreated, payload))
}

func TestDashboardConsumer_OrderContract(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewInMemoryProjectionRepo()
	service := dashApp.NewProjectionService(repo, mocks.NewDummyCache(), zap.NewNop())
	consumer := dashConsumer.NewDashboardConsumer(service, nil, zap.NewNop())

	created := []byte(`{
		"_id": "order-1",
		"userId": "user-7",
		"items": [
			{"productId": "p1", "quantity": 2, "price": {"amount": 80, "currency": "INR"}}
		],
		"totalPrice": {"amount": 160, "currency": "INR"},
		"shippingAddress": {"address": "Calle 1", "city": "Madrid", "postalCode": "28001", "country": "ES"},
		"status": "PENDING",
		"createdAt": "2025-11-02T10:00:00Z"
	}`)

	assert.Equal(t, sharedBus.Ack, consumer.HandleMessage(ctx, sharedEvents.OrderCreated, created))

	o, err := repo.GetOrder(ctx, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, 160.0, o.TotalAmount)
	assert.Equal(t, "PENDING", o.Status)

	// La cancelación viaja como actualización parcial {_id, status}.
	assert.Equal(t, sharedBus.Ack,
		consumer.HandleMessage(ctx, sharedEvents.OrderCancelled, []byte(`{"_id": "order-1", "status": "CANCELLED"}`)))

	o, _ = repo.GetOrder(ctx, "order-1")
	assert.Equal(t, "CANCELLED", o.Status)
}

func TestDashboardConsumer_MalformedPayloadDrops(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewInMemoryProjectionRepo()
	service := dashApp.NewProjectionService(repo, mocks.NewDummyCache(), zap.NewNop())
	consumer := dashConsumer.NewDashboardConsumer(service, nil, zap.NewNop())

	// Un payload ilegible no se reencola: reentregarlo no lo arregla.
	decision := consumer.HandleMessage(ctx, sharedEvents.ProductCreated, []byte(`{not json`))
	assert.Equal(t, sharedBus.Drop, decision)
}

func TestDashboardConsumer_UnknownQueueDrops(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewInMemoryProjectionRepo()
	service := dashApp.NewProjectionService(repo, mocks.NewDummyCache(), zap.NewNop())
	consumer := dashConsumer.NewDashboardConsumer(service, nil, zap.NewNop())

	decision := consumer.HandleMessage(ctx, "UNKNOWN.QUEUE", []byte(`{}`))
	assert.Equal(t, sharedBus.Drop, decision)
}
