package bus

import "context"

// Decision es el resultado explícito de procesar un mensaje. Sustituye al
// control de flujo implícito "ack si no hubo panic": cada handler decide
// de forma visible qué debe hacer el broker con el mensaje.
type Decision int

const (
	// Ack: procesado con éxito, el broker descarta el mensaje.
	Ack Decision = iota
	// Requeue: fallo recuperable, el broker debe reentregar.
	Requeue
	// Drop: fallo permanente, el mensaje va a la dead-letter queue.
	Drop
)

func (d Decision) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	case Drop:
		return "drop"
	}
	return "unknown"
}

// MessageHandler procesa un mensaje entregado desde una cola.
// El payload llega tal cual se publicó (JSON UTF-8).
type MessageHandler func(ctx context.Context, queue string, payload []byte) Decision

// Broker es el puerto del cliente de colas durables: publicar serializa el
// evento a JSON y lo deja en la cola; suscribirse registra un handler que
// recibe cada mensaje con semántica at-least-once.
type Broker interface {
	Publish(ctx context.Context, queue string, event interface{}) error
	Subscribe(ctx context.Context, queue string, handler MessageHandler) error
}
