package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderPending, OrderCancelled, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderShipped, OrderCancelled, true},
		{OrderPending, OrderDelivered, false},
		{OrderPending, OrderShipped, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderDelivered, OrderConfirmed, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"transition %s → %s", c.from, c.to)
	}
}

func TestOrderSnapshot(t *testing.T) {
	now := time.Now().UTC()
	o := &Order{
		ID:     uuid.New(),
		UserID: "user-1",
		Items: []OrderItem{
			{ProductID: "p1", Name: "Taza", Quantity: 2, Price: Money{Amount: 10, Currency: "INR"}},
		},
		TotalPrice:      Money{Amount: 20, Currency: "INR"},
		ShippingAddress: Address{City: "Madrid", Country: "ES"},
		Status:          OrderPending,
		CreatedAt:       now,
	}

	snap := o.Snapshot()
	assert.Equal(t, o.ID.String(), snap.ID)
	assert.Equal(t, "user-1", snap.UserID)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 20.0, snap.TotalPrice.Amount)
	assert.Equal(t, "PENDING", snap.Status)
	assert.Equal(t, "Madrid", snap.ShippingAddress.City)
}

func TestStockSnapshot(t *testing.T) {
	o := &Order{
		ID: uuid.New(),
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}

	snap := o.StockSnapshot()
	assert.Equal(t, o.ID.String(), snap.OrderID)
	assert.Equal(t, []sharedEvents.OrderStockLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, snap.Items)
}

func TestNewOrderCreatedEvents(t *testing.T) {
	o := &Order{ID: uuid.New(), Status: OrderPending}
	evts := NewOrderCreatedEvents(o)

	assert.Len(t, evts, 3)
	for _, evt := range evts {
		assert.Equal(t, "order", evt.AggregateType)
		assert.Equal(t, o.ID.String(), evt.AggregateID)
	}
	assert.Equal(t, sharedEvents.OrderCreated, evts[0].EventType)
	assert.Equal(t, sharedEvents.OrderPlacedForStock, evts[1].EventType)
	assert.Equal(t, sharedEvents.OrderCreatedNotif, evts[2].EventType)
}

func TestNewOrderStatusEvents_DeliveredNotifies(t *testing.T) {
	o := &Order{ID: uuid.New(), Status: OrderShipped}
	assert.Len(t, NewOrderStatusEvents(o), 1)

	o.Status = OrderDelivered
	evts := NewOrderStatusEvents(o)
	assert.Len(t, evts, 2)
	assert.Equal(t, sharedEvents.OrderDeliveredNotif, evts[1].EventType)
}
