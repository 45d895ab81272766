package broker

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
)

// InMemoryBroker implementa la misma semántica de colas que RabbitClient
// (cola nombrada, ack/nack explícito, reentrega, DLQ) pero en memoria.
// Se usa en tests y en despliegues locales sin broker externo.
type InMemoryBroker struct {
	maxAttempts int
	log         *zap.Logger

	mu     sync.Mutex
	queues map[string]*memQueue
}

type memQueue struct {
	mu       sync.Mutex
	pending  [][]byte
	handlers []sharedBus.MessageHandler
	next     int // round-robin entre consumidores
	attempts map[uint64]int
	notify   chan struct{}
	started  bool
}

func NewInMemoryBroker(maxAttempts int, log *zap.Logger) *InMemoryBroker {
	return &InMemoryBroker{
		maxAttempts: maxAttempts,
		log:         log,
		queues:      make(map[string]*memQueue),
	}
}

func (b *InMemoryBroker) queue(name string) *memQueue {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[name]
	if !ok {
		q = &memQueue{
			attempts: make(map[uint64]int),
			notify:   make(chan struct{}, 1),
		}
		b.queues[name] = q
	}
	return q
}

// Publish serializa el evento y lo encola. Los mensajes persisten en la cola
// hasta que un handler los confirma, igual que en el broker real.
func (b *InMemoryBroker) Publish(ctx context.Context, queue string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	q := b.queue(queue)
	q.mu.Lock()
	q.pending = append(q.pending, data)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Subscribe registra un consumidor más en la cola. El despachador reparte
// cada mensaje a exactamente un consumidor activo (round-robin).
func (b *InMemoryBroker) Subscribe(ctx context.Context, queue string, handler sharedBus.MessageHandler) error {
	q := b.queue(queue)

	q.mu.Lock()
	q.handlers = append(q.handlers, handler)
	started := q.started
	q.started = true
	q.mu.Unlock()

	if !started {
		go b.dispatch(ctx, queue, q)
	}

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

func (b *InMemoryBroker) dispatch(ctx context.Context, queue string, q *memQueue) {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 || len(q.handlers) == 0 {
			q.mu.Unlock()
			select {
			case <-ctx.Done():
				return
			case <-q.notify:
				continue
			}
		}

		msg := q.pending[0]
		q.pending = q.pending[1:]
		handler := q.handlers[q.next%len(q.handlers)]
		q.next++
		q.mu.Unlock()

		fp := fingerprint(msg)
		decision := handler(ctx, queue, msg)

		q.mu.Lock()
		if decision == sharedBus.Requeue {
			q.attempts[fp]++
			if q.attempts[fp] >= b.maxAttempts {
				decision = sharedBus.Drop
			}
		}

		switch decision {
		case sharedBus.Ack:
			delete(q.attempts, fp)
		case sharedBus.Requeue:
			// reentrega: vuelve al frente de la cola
			q.pending = append([][]byte{msg}, q.pending...)
		case sharedBus.Drop:
			delete(q.attempts, fp)
			q.mu.Unlock()
			if b.log != nil {
				b.log.Warn("☠️ Mensaje enviado a la DLQ", zap.String("queue", queue))
			}
			dlq := b.queue(queue + sharedEvents.DLQSuffix)
			dlq.mu.Lock()
			dlq.pending = append(dlq.pending, msg)
			dlq.mu.Unlock()
			continue
		}
		q.mu.Unlock()
	}
}

// Depth devuelve cuántos mensajes siguen sin confirmar en la cola.
func (b *InMemoryBroker) Depth(queue string) int {
	q := b.queue(queue)
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Verificación estática
var _ sharedBus.Broker = (*InMemoryBroker)(nil)
