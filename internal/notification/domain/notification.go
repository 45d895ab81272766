package domain

import "context"

// Message es el correo ya renderizado, listo para enviar.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer entrega el correo al canal de salida. El envío es best-effort:
// quien lo invoca decide qué hacer si falla, y aquí nunca se reintenta.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
