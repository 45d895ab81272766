package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
)

// MockOutboxRepository es un mock de testify para el repositorio de outbox.
type MockOutboxRepository struct {
	mock.Mock
}

var _ sharedDomain.OutboxRepository = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if evts, ok := args.Get(0).([]sharedDomain.OutboxEvent); ok {
		return evts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutboxRepository) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBroker es un mock de testify para el broker de colas.
type MockBroker struct {
	mock.Mock
}

var _ sharedBus.Broker = (*MockBroker)(nil)

func (m *MockBroker) Publish(ctx context.Context, queue string, event interface{}) error {
	args := m.Called(ctx, queue, event)
	return args.Error(0)
}

func (m *MockBroker) Subscribe(ctx context.Context, queue string, handler sharedBus.MessageHandler) error {
	args := m.Called(ctx, queue, handler)
	return args.Error(0)
}

// RecordingBroker guarda lo publicado, por cola, para inspección en tests.
type RecordingBroker struct {
	mu        sync.Mutex
	Published map[string][]interface{}
	Handlers  map[string]sharedBus.MessageHandler
}

var _ sharedBus.Broker = (*RecordingBroker)(nil)

func NewRecordingBroker() *RecordingBroker {
	return &RecordingBroker{
		Published: make(map[string][]interface{}),
		Handlers:  make(map[string]sharedBus.MessageHandler),
	}
}

func (b *RecordingBroker) Publish(ctx context.Context, queue string, event interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Published[queue] = append(b.Published[queue], event)
	return nil
}

func (b *RecordingBroker) Subscribe(ctx context.Context, queue string, handler sharedBus.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Handlers[queue] = handler
	return nil
}

// Count devuelve cuántos eventos se publicaron en la cola.
func (b *RecordingBroker) Count(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Published[queue])
}
