package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	"github.com/davicafu/tiendalab/tests/mocks"
)

var buyer = orderDomain.Customer{Name: "Ana", Email: "ana@example.com"}

func snapshot(id, name string, stock int, amount float64, discount *float64) *sharedEvents.ProductSnapshot {
	return &sharedEvents.ProductSnapshot{
		ID:    id,
		Name:  name,
		Stock: stock,
		Price: sharedEvents.Price{Amount: amount, DiscountPrice: discount, Currency: "INR"},
	}
}

func newService(cart *orderDomain.Cart, products map[string]*sharedEvents.ProductSnapshot) (*OrderService, *mocks.InMemoryOrderRepo, *mocks.StubProductClient) {
	repo := mocks.NewInMemoryOrderRepo()
	carts := &mocks.StubCartClient{Cart: cart}
	catalog := &mocks.StubProductClient{Products: products}
	service := NewOrderService(repo, carts, catalog, "INR", zap.NewNop())
	return service, repo, catalog
}

func TestCreateOrder_Success(t *testing.T) {
	discount := 80.0
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 2}}},
		map[string]*sharedEvents.ProductSnapshot{
			"p1": snapshot("p1", "Camiseta", 10, 100, &discount),
		},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{City: "Madrid"})
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, orderDomain.OrderPending, order.Status)

	// El precio unitario es el de descuento: 80 × 2 = 160 INR.
	assert.Equal(t, 160.0, order.TotalPrice.Amount)
	assert.Equal(t, "INR", order.TotalPrice.Currency)
	assert.Equal(t, 80.0, order.Items[0].Price.Amount)

	// Pedido persistido junto a sus tres eventos de outbox.
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, repo.Outbox, 3)

	queues := make([]string, 0, len(repo.Outbox))
	for _, evt := range repo.Outbox {
		queues = append(queues, evt.EventType)
	}
	assert.Contains(t, queues, sharedEvents.OrderCreated)
	assert.Contains(t, queues, sharedEvents.OrderPlacedForStock)
	assert.Contains(t, queues, sharedEvents.OrderCreatedNotif)
}

func TestCreateOrder_NotificationCarriesRecipient(t *testing.T) {
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 1}}},
		map[string]*sharedEvents.ProductSnapshot{"p1": snapshot("p1", "Taza", 5, 10, nil)},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{City: "Madrid"})
	assert.NoError(t, err)

	var notif *sharedEvents.OrderNotificationSnapshot
	for _, evt := range repo.Outbox {
		if evt.EventType == sharedEvents.OrderCreatedNotif {
			snap, ok := evt.Payload.(sharedEvents.OrderNotificationSnapshot)
			assert.True(t, ok)
			notif = &snap
		}
	}

	// El evento de notificación lleva el contacto del comprador: sin email
	// el servicio de notificaciones descarta el envío.
	if assert.NotNil(t, notif) {
		assert.Equal(t, order.ID.String(), notif.OrderID)
		assert.Equal(t, "user-1", notif.Customer.ID)
		assert.Equal(t, "Ana", notif.Customer.Name)
		assert.Equal(t, "ana@example.com", notif.Customer.Email)
	}
}

func TestCreateOrder_WithoutDiscountUsesAmount(t *testing.T) {
	service, _, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 3}}},
		map[string]*sharedEvents.ProductSnapshot{
			"p1": snapshot("p1", "Taza", 5, 12.5, nil),
		},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})
	assert.NoError(t, err)
	assert.Equal(t, 37.5, order.TotalPrice.Amount)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	service, repo, catalog := newService(&orderDomain.Cart{}, nil)

	_, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})
	assert.ErrorIs(t, err, orderDomain.ErrEmptyCart)

	// Con el carrito vacío no se consulta ningún producto ni se persiste nada.
	assert.Zero(t, catalog.Calls)
	assert.Zero(t, repo.Len())
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 3},
		}},
		map[string]*sharedEvents.ProductSnapshot{
			"p1": snapshot("p1", "Taza", 10, 10, nil),
			"p2": snapshot("p2", "Camisa Azul", 1, 25, nil),
		},
	)

	_, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})

	var bizErr *sharedDomain.BusinessError
	assert.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", bizErr.Code)
	assert.Contains(t, bizErr.Message, "Camisa Azul")

	// La violación aborta el pedido completo: nada persistido, nada publicado.
	assert.Zero(t, repo.Len())
	assert.Empty(t, repo.Outbox)
}

func TestCreateOrder_ProductGone(t *testing.T) {
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "ghost", Quantity: 1}}},
		map[string]*sharedEvents.ProductSnapshot{},
	)

	_, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})

	var bizErr *sharedDomain.BusinessError
	assert.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "PRODUCT_NOT_FOUND", bizErr.Code)
	assert.Zero(t, repo.Len())
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 1}}},
		map[string]*sharedEvents.ProductSnapshot{"p1": snapshot("p1", "Taza", 5, 10, nil)},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})
	assert.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), order.ID, orderDomain.OrderConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, orderDomain.OrderConfirmed, updated.Status)

	// 3 eventos de la creación + 1 de la actualización de estado.
	assert.Len(t, repo.Outbox, 4)
	assert.Equal(t, sharedEvents.OrderStatusUpdated, repo.Outbox[3].EventType)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	service, _, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 1}}},
		map[string]*sharedEvents.ProductSnapshot{"p1": snapshot("p1", "Taza", 5, 10, nil)},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})
	assert.NoError(t, err)

	// PENDING no puede saltar directamente a DELIVERED.
	_, err = service.UpdateStatus(context.Background(), order.ID, orderDomain.OrderDelivered)

	var bizErr *sharedDomain.BusinessError
	assert.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "INVALID_STATUS_TRANSITION", bizErr.Code)
}

func TestCancelOrder_PublishesCancellation(t *testing.T) {
	service, repo, _ := newService(
		&orderDomain.Cart{Items: []orderDomain.CartItem{{ProductID: "p1", Quantity: 1}}},
		map[string]*sharedEvents.ProductSnapshot{"p1": snapshot("p1", "Taza", 5, 10, nil)},
	)

	order, err := service.CreateOrder(context.Background(), "user-1", "token", "", buyer, orderDomain.Address{})
	assert.NoError(t, err)

	cancelled, err := service.CancelOrder(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, orderDomain.OrderCancelled, cancelled.Status)

	queues := make([]string, 0, len(repo.Outbox))
	for _, evt := range repo.Outbox {
		queues = append(queues, evt.EventType)
	}
	assert.Contains(t, queues, sharedEvents.OrderCancelled)
	assert.Contains(t, queues, sharedEvents.OrderCancelledNotif)
}
