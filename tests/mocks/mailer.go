package mocks

import (
	"context"
	"sync"

	notifDomain "github.com/davicafu/tiendalab/internal/notification/domain"
)

// RecordingMailer guarda los correos enviados para inspección en tests.
// Con Err configurado, todos los envíos fallan.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []notifDomain.Message
	Err  error
}

var _ notifDomain.Mailer = (*RecordingMailer)(nil)

func (m *RecordingMailer) Send(ctx context.Context, msg notifDomain.Message) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// Count devuelve cuántos correos se enviaron.
func (m *RecordingMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
