package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
)

// KafkaMirror decora un Broker: cada evento publicado se copia además a un
// topic "firehose" de Kafka del que bebe el pipeline analítico. La copia es
// best-effort: un fallo en Kafka no hace fallar la publicación principal.
type KafkaMirror struct {
	primary sharedBus.Broker
	writer  *kafka.Writer
	log     *zap.Logger
}

func NewKafkaMirror(primary sharedBus.Broker, writer *kafka.Writer, log *zap.Logger) *KafkaMirror {
	return &KafkaMirror{primary: primary, writer: writer, log: log}
}

func (m *KafkaMirror) Publish(ctx context.Context, queue string, event interface{}) error {
	if err := m.primary.Publish(ctx, queue, event); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// La clave es el nombre de la cola para que el firehose conserve el
	// orden por topic dentro de cada partición.
	msg := kafka.Message{
		Key:   []byte(queue),
		Value: data,
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		m.log.Warn("⚠️ No se pudo copiar el evento al firehose de Kafka",
			zap.String("queue", queue),
			zap.Error(err),
		)
	}
	return nil
}

func (m *KafkaMirror) Subscribe(ctx context.Context, queue string, handler sharedBus.MessageHandler) error {
	return m.primary.Subscribe(ctx, queue, handler)
}

// Verificación estática
var _ sharedBus.Broker = (*KafkaMirror)(nil)
