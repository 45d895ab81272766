package domain

import (
	"context"
	"errors"
	"time"
)

// ---------- Errores de dominio ----------
var (
	// ErrDuplicateProjection: el registro ya existe. Los handlers de
	// creación son insert-only; un duplicado es un fallo visible, no un
	// upsert silencioso.
	ErrDuplicateProjection = errors.New("projection already exists")

	ErrProjectionNotFound = errors.New("projection not found")

	// ErrAnalyticsUnavailable: el despliegue corre sin almacén analítico.
	ErrAnalyticsUnavailable = errors.New("analytics store not available")
)

// ---------- Interfaces (Ports) ----------

// ProjectionRepository persiste las copias locales del dashboard.
//
// Las operaciones de creación insertan y fallan con ErrDuplicateProjection
// si el id ya existe. Las de actualización hacen merge por id (upsert): la
// última entrega gana, llegue en el orden que llegue. Los borrados son
// idempotentes.
type ProjectionRepository interface {
	InsertProduct(ctx context.Context, p ProductProjection) error
	MergeProduct(ctx context.Context, p ProductProjection) error
	UpdateProductStock(ctx context.Context, id string, stock int) error
	DeleteProduct(ctx context.Context, id string) error

	InsertOrder(ctx context.Context, o OrderProjection) error
	UpdateOrderStatus(ctx context.Context, id, status string) error

	InsertPayment(ctx context.Context, p PaymentProjection) error
	MergePayment(ctx context.Context, p PaymentProjection) error

	// --- Lectura para la API del dashboard ---
	GetProduct(ctx context.Context, id string) (*ProductProjection, error)
	ListProductsBySeller(ctx context.Context, sellerID string) ([]ProductProjection, error)
	GetOrder(ctx context.Context, id string) (*OrderProjection, error)
	ListOrders(ctx context.Context, limit int) ([]OrderProjection, error)
	ListPayments(ctx context.Context, limit int) ([]PaymentProjection, error)
}

// QueueVolume es el recuento de mensajes por cola y día.
type QueueVolume struct {
	Queue string    `json:"queue"`
	Day   time.Time `json:"day"`
	Count uint64    `json:"count"`
}

// EventLogger registra cada mensaje recibido en el almacén analítico.
// Es best-effort: un fallo aquí nunca afecta a la proyección.
type EventLogger interface {
	LogEvents(ctx context.Context, entries []EventLogEntry) error
	GetDailyVolume(ctx context.Context, start, end time.Time) ([]QueueVolume, error)
}
