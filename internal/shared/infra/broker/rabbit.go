package broker

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
	sharedUtils "github.com/davicafu/tiendalab/internal/shared/utils"
)

// RabbitClient es el cliente de colas durables sobre AMQP. Mantiene UNA
// conexión y UN canal por proceso, creados de forma perezosa en el primer
// Publish/Subscribe y compartidos por todos los componentes.
type RabbitClient struct {
	url         string
	maxAttempts int // reentregas antes de mandar el mensaje a la DLQ
	log         *zap.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool // colas ya declaradas en este canal
}

func NewRabbitClient(url string, maxAttempts int, log *zap.Logger) *RabbitClient {
	return &RabbitClient{
		url:         url,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// MustConnect fuerza la conexión inicial. Si el broker no está disponible al
// arrancar, el proceso termina y el supervisor externo lo reinicia.
func (c *RabbitClient) MustConnect() {
	if _, err := c.channel(); err != nil {
		c.log.Fatal("No se pudo conectar con el broker AMQP", zap.Error(err))
	}
}

// channel es idempotente: devuelve el canal existente o abre conexión y canal
// nuevos. Si la conexión establecida se pierde, se limpia el estado y la
// siguiente llamada vuelve a marcar (reconexión perezosa).
func (c *RabbitClient) channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() && c.ch != nil {
		return c.ch, nil
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	c.conn = conn
	c.ch = ch
	c.declared = make(map[string]bool)

	closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr := <-closeCh; amqpErr != nil {
			c.log.Warn("⚠️ Conexión AMQP perdida", zap.Error(amqpErr))
		}
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.ch = nil
		}
		c.mu.Unlock()
	}()

	c.log.Info("✅ Conectado al broker AMQP")
	return ch, nil
}

// ensureQueue declara la cola durable y su DLQ asociada. Declarar es
// idempotente en AMQP, pero cacheamos para no repetirlo en cada publish.
func (c *RabbitClient) ensureQueue(ch *amqp.Channel, queue string) error {
	c.mu.Lock()
	done := c.declared[queue]
	c.mu.Unlock()
	if done {
		return nil
	}

	dlq := queue + sharedEvents.DLQSuffix
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlq,
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return err
	}

	c.mu.Lock()
	c.declared[queue] = true
	c.mu.Unlock()
	return nil
}

// Publish serializa el evento a JSON y lo deja en la cola durable. No se
// espera confirmación del broker: un envío aceptado a nivel de socket se da
// por bueno.
func (c *RabbitClient) Publish(ctx context.Context, queue string, event interface{}) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}
	if err := c.ensureQueue(ch, queue); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         data,
	}); err != nil {
		c.log.Error("Error publicando en AMQP", zap.String("queue", queue), zap.Error(err))
		return err
	}

	c.log.Debug("Evento publicado", zap.String("queue", queue))
	return nil
}

// Subscribe registra un handler que recibe cada mensaje de la cola con
// semántica at-least-once. La decisión del handler gobierna el ack:
// Ack confirma, Requeue reentrega y Drop manda el mensaje a la DLQ.
func (c *RabbitClient) Subscribe(ctx context.Context, queue string, handler sharedBus.MessageHandler) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}
	if err := c.ensureQueue(ch, queue); err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.log.Info("🎧 Suscrito a la cola", zap.String("queue", queue))
	go c.deliver(ctx, queue, deliveries, handler)
	return nil
}

func (c *RabbitClient) deliver(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handler sharedBus.MessageHandler) {
	// attempts cuenta reentregas por huella del cuerpo. Solo lo toca esta
	// goroutine, así que no necesita mutex.
	attempts := make(map[uint64]int)

	for msg := range deliveries {
		fp := fingerprint(msg.Body)

		decision := handler(ctx, queue, msg.Body)
		if decision == sharedBus.Requeue {
			attempts[fp]++
			if attempts[fp] >= c.maxAttempts {
				c.log.Warn("☠️ Mensaje venenoso, enviado a la DLQ",
					zap.String("queue", queue),
					zap.Int("attempts", attempts[fp]),
				)
				decision = sharedBus.Drop
			}
		}

		switch decision {
		case sharedBus.Ack:
			delete(attempts, fp)
			if err := msg.Ack(false); err != nil {
				c.log.Warn("No se pudo confirmar el mensaje", zap.String("queue", queue), zap.Error(err))
			}
		case sharedBus.Requeue:
			_ = msg.Nack(false, true)
		case sharedBus.Drop:
			delete(attempts, fp)
			// requeue=false enruta a la DLQ vía x-dead-letter
			_ = msg.Nack(false, false)
		}
	}

	// El canal de entregas se cierra al perder la conexión. Si el contexto
	// sigue vivo, restablecemos la suscripción con backoff.
	if ctx.Err() != nil {
		c.log.Info("Suscripción detenida", zap.String("queue", queue))
		return
	}

	c.log.Warn("🔁 Entregas interrumpidas, restableciendo suscripción", zap.String("queue", queue))
	err := sharedUtils.Retry(ctx, 30, 2*time.Second, func() error {
		return c.Subscribe(ctx, queue, handler)
	})
	if err != nil && ctx.Err() == nil {
		c.log.Fatal("No se pudo restablecer la suscripción", zap.String("queue", queue), zap.Error(err))
	}
}

func fingerprint(body []byte) uint64 {
	h := fnv.New64a()
	h.Write(body)
	return h.Sum64()
}

// Verificación estática
var _ sharedBus.Broker = (*RabbitClient)(nil)
