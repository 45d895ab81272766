package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	paymentDomain "github.com/davicafu/tiendalab/internal/payment/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PaymentRepoPostgres struct {
	db *sql.DB
}

func NewPaymentRepoPostgres(db *sql.DB) *PaymentRepoPostgres {
	return &PaymentRepoPostgres{db: db}
}

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

func (r *PaymentRepoPostgres) Create(ctx context.Context, p *paymentDomain.Payment, evts []sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	customerBytes, err := json.Marshal(p.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal payment customer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, order_id, user_id, customer, amount, currency, provider, provider_payment_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.OrderID, p.UserID, customerBytes, p.Amount, p.Currency, p.Provider, p.PaymentID, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutboxTx(ctx, tx, evts); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PaymentRepoPostgres) Update(ctx context.Context, p *paymentDomain.Payment, evts []sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status=$1, provider_payment_id=$2, updated_at=$3 WHERE id=$4`,
		string(p.Status), p.PaymentID, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		err = paymentDomain.ErrPaymentNotFound
		return err
	}

	if err = insertOutboxTx(ctx, tx, evts); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PaymentRepoPostgres) GetByID(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	var p paymentDomain.Payment
	var status string
	var customerBytes []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT id, order_id, user_id, customer, amount, currency, provider, provider_payment_id, status, created_at, updated_at
		 FROM payments WHERE id=$1`, id,
	).Scan(&p.ID, &p.OrderID, &p.UserID, &customerBytes, &p.Amount, &p.Currency, &p.Provider, &p.PaymentID, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, paymentDomain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(customerBytes, &p.Customer); err != nil {
		return nil, fmt.Errorf("invalid customer JSON for payment %s: %w", id, err)
	}
	p.Status = paymentDomain.PaymentStatus(status)
	return &p, nil
}

func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		customer JSONB NOT NULL DEFAULT '{}',
		amount DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		provider_payment_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Verificación estática
var _ paymentDomain.PaymentRepository = (*PaymentRepoPostgres)(nil)
