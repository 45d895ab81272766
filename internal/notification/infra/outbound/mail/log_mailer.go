package mail

import (
	"context"

	"go.uber.org/zap"

	notifDomain "github.com/davicafu/tiendalab/internal/notification/domain"
)

// LogMailer escribe los correos en el log en lugar de enviarlos. Para
// despliegues locales sin servidor SMTP.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg notifDomain.Message) error {
	m.log.Info("📧 Correo (modo local)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// Verificación estática
var _ notifDomain.Mailer = (*LogMailer)(nil)
