package broker

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
)

type testEvent struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Stock int      `json:"stock"`
	Tags  []string `json:"tags"`
}

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	b := NewInMemoryBroker(5, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []testEvent

	err := b.Subscribe(ctx, "TEST.CREATED", func(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
		var evt testEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return sharedBus.Drop
		}
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		return sharedBus.Ack
	})
	assert.NoError(t, err)

	sent := testEvent{ID: "p1", Name: "Taza", Stock: 7, Tags: []string{"home", "kitchen"}}
	assert.NoError(t, b.Publish(ctx, "TEST.CREATED", sent))

	// El consumidor recibe exactamente lo publicado, campo a campo.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, sent, received[0])
	mu.Unlock()
}

func TestRequeue_RedeliversUntilAck(t *testing.T) {
	b := NewInMemoryBroker(10, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deliveries int32
	err := b.Subscribe(ctx, "TEST.RETRY", func(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
		n := atomic.AddInt32(&deliveries, 1)
		if n < 3 {
			return sharedBus.Requeue
		}
		return sharedBus.Ack
	})
	assert.NoError(t, err)

	assert.NoError(t, b.Publish(ctx, "TEST.RETRY", testEvent{ID: "p1"}))

	// El mensaje se reentrega hasta que el handler lo confirma.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&deliveries) == 3
	}, time.Second, 5*time.Millisecond)

	// Tras el ack no hay más entregas ni mensajes pendientes.
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 3, atomic.LoadInt32(&deliveries))
	assert.Zero(t, b.Depth("TEST.RETRY"))
	assert.Zero(t, b.Depth("TEST.RETRY.dlq"))
}

func TestRequeue_ExhaustedGoesToDLQ(t *testing.T) {
	maxAttempts := 4
	b := NewInMemoryBroker(maxAttempts, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deliveries int32
	err := b.Subscribe(ctx, "TEST.POISON", func(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
		atomic.AddInt32(&deliveries, 1)
		return sharedBus.Requeue
	})
	assert.NoError(t, err)

	assert.NoError(t, b.Publish(ctx, "TEST.POISON", testEvent{ID: "poison"}))

	// Tras agotar los reintentos el mensaje acaba en la DLQ, una sola vez.
	assert.Eventually(t, func() bool {
		return b.Depth("TEST.POISON.dlq") == 1
	}, time.Second, 5*time.Millisecond)

	assert.EqualValues(t, maxAttempts, atomic.LoadInt32(&deliveries))
	assert.Zero(t, b.Depth("TEST.POISON"))
}

func TestDrop_GoesStraightToDLQ(t *testing.T) {
	b := NewInMemoryBroker(5, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var deliveries int32
	err := b.Subscribe(ctx, "TEST.MALFORMED", func(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
		atomic.AddInt32(&deliveries, 1)
		return sharedBus.Drop
	})
	assert.NoError(t, err)

	assert.NoError(t, b.Publish(ctx, "TEST.MALFORMED", testEvent{ID: "bad"}))

	assert.Eventually(t, func() bool {
		return b.Depth("TEST.MALFORMED.dlq") == 1
	}, time.Second, 5*time.Millisecond)

	// Sin reintentos: una única entrega.
	assert.EqualValues(t, 1, atomic.LoadInt32(&deliveries))
}

func TestMultipleConsumers_EachMessageDeliveredOnce(t *testing.T) {
	b := NewInMemoryBroker(5, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var total int32
	handler := func(ctx context.Context, queue string, payload []byte) sharedBus.Decision {
		atomic.AddInt32(&total, 1)
		return sharedBus.Ack
	}

	assert.NoError(t, b.Subscribe(ctx, "TEST.SHARED", handler))
	assert.NoError(t, b.Subscribe(ctx, "TEST.SHARED", handler))

	for i := 0; i < 10; i++ {
		assert.NoError(t, b.Publish(ctx, "TEST.SHARED", testEvent{ID: "m"}))
	}

	// Cada mensaje se entrega a exactamente un consumidor.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&total) == 10
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 10, atomic.LoadInt32(&total))
}
