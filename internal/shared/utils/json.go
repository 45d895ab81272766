package utils

import (
	"encoding/json"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/tiendalab/internal/shared/platform/bus"
)

// DecodeAndHandle deserializa el snapshot y delega en el handler tipado.
// Un payload malformado nunca se reencola: reentregarlo no lo va a arreglar,
// así que va directo a la DLQ.
func DecodeAndHandle[T any](log *zap.Logger, payload []byte, handler func(T) sharedBus.Decision) sharedBus.Decision {
	var evt T
	if err := json.Unmarshal(payload, &evt); err != nil {
		log.Warn("Failed to unmarshal event payload", zap.Error(err))
		return sharedBus.Drop
	}
	return handler(evt)
}
