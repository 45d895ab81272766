package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
)

// EventLogRepo implementa la interfaz EventLogger para ClickHouse. Guarda el
// registro crudo de cada mensaje recibido por el dashboard para analizar el
// tráfico de integración (volumen por cola, reentregas, latencias).
type EventLogRepo struct {
	db *sql.DB
}

// NewEventLogRepo es el constructor.
func NewEventLogRepo(addr string, dbName string) (*EventLogRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &EventLogRepo{db: conn}, nil
}

// LogEvents inserta un lote de registros. ClickHouse funciona mejor con
// inserciones en lotes.
func (r *EventLogRepo) LogEvents(ctx context.Context, entries []dashDomain.EventLogEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO integration_events_log (queue, aggregate_id, payload, received_at)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(
			ctx,
			entry.Queue,
			entry.AggregateID,
			entry.Payload,
			entry.ReceivedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for queue %s: %w", entry.Queue, err)
		}
	}

	return tx.Commit()
}

// GetDailyVolume devuelve el volumen diario de mensajes por cola.
func (r *EventLogRepo) GetDailyVolume(ctx context.Context, start, end time.Time) ([]dashDomain.QueueVolume, error) {
	query := `
		SELECT
			queue,
			toStartOfDay(received_at) AS day,
			count() AS total
		FROM integration_events_log
		WHERE received_at BETWEEN ? AND ?
		GROUP BY queue, day
		ORDER BY day, queue
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volumes []dashDomain.QueueVolume
	for rows.Next() {
		var v dashDomain.QueueVolume
		if err := rows.Scan(&v.Queue, &v.Day, &v.Count); err != nil {
			return nil, err
		}
		volumes = append(volumes, v)
	}
	return volumes, rows.Err()
}

// Verificación estática
var _ dashDomain.EventLogger = (*EventLogRepo)(nil)
