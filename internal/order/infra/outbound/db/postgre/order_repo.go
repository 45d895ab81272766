package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type OrderRepoPostgres struct {
	db *sql.DB
}

func NewOrderRepoPostgres(db *sql.DB) *OrderRepoPostgres {
	return &OrderRepoPostgres{db: db}
}

// ------------------ Helper DRY para insertar en outbox ------------------

func insertOutboxTx(ctx context.Context, tx *sql.Tx, evts []sharedDomain.OutboxEvent) error {
	for _, evt := range evts {
		payloadBytes, err := json.Marshal(evt.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal outbox payload: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at, processed)
			 VALUES ($1, $2, $3, $4, $5, $6, false)`,
			evt.ID, evt.AggregateType, evt.AggregateID, evt.EventType, payloadBytes, evt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert outbox event: %w", err)
		}
	}
	return nil
}

// ------------------ Escritura + Outbox ------------------

// Create inserta el pedido y sus eventos en una transacción: o se persiste
// todo, o nada llega al relayer.
func (r *OrderRepoPostgres) Create(ctx context.Context, o *orderDomain.Order, evts []sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	customerBytes, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal order customer: %w", err)
	}
	itemsBytes, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	totalBytes, err := json.Marshal(o.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to marshal order total: %w", err)
	}
	addrBytes, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, customer, items, total_price, shipping_address, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.UserID, customerBytes, itemsBytes, totalBytes, addrBytes, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutboxTx(ctx, tx, evts); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateStatus actualiza el estado y crea los eventos en transacción.
func (r *OrderRepoPostgres) UpdateStatus(ctx context.Context, o *orderDomain.Order, evts []sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		string(o.Status), o.UpdatedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		err = orderDomain.ErrOrderNotFound
		return err
	}

	if err = insertOutboxTx(ctx, tx, evts); err != nil {
		return err
	}

	return tx.Commit()
}

// ------------------ Lectura ------------------

func (r *OrderRepoPostgres) GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, customer, items, total_price, shipping_address, status, created_at, updated_at
		 FROM orders WHERE id=$1`, id)
	return scanOrder(row)
}

func (r *OrderRepoPostgres) ListByUser(ctx context.Context, userID string) ([]*orderDomain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, customer, items, total_price, shipping_address, status, created_at, updated_at
		 FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*orderDomain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*orderDomain.Order, error) {
	var o orderDomain.Order
	var idStr, status string
	var customerBytes, itemsBytes, totalBytes, addrBytes []byte

	if err := row.Scan(&idStr, &o.UserID, &customerBytes, &itemsBytes, &totalBytes, &addrBytes, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, orderDomain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", idStr, err)
	}
	o.ID = parsedID
	o.Status = orderDomain.OrderStatus(status)

	if err := json.Unmarshal(customerBytes, &o.Customer); err != nil {
		return nil, fmt.Errorf("invalid customer JSON for order %s: %w", idStr, err)
	}
	if err := json.Unmarshal(itemsBytes, &o.Items); err != nil {
		return nil, fmt.Errorf("invalid items JSON for order %s: %w", idStr, err)
	}
	if err := json.Unmarshal(totalBytes, &o.TotalPrice); err != nil {
		return nil, fmt.Errorf("invalid total JSON for order %s: %w", idStr, err)
	}
	if err := json.Unmarshal(addrBytes, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("invalid address JSON for order %s: %w", idStr, err)
	}

	return &o, nil
}

// ------------------ Inicialización ------------------

func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		customer JSONB NOT NULL DEFAULT '{}',
		items JSONB NOT NULL,
		total_price JSONB NOT NULL,
		shipping_address JSONB NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE
	)`)
	return err
}

// Verificación estática
var _ orderDomain.OrderRepository = (*OrderRepoPostgres)(nil)
