package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
	sharedUtils "github.com/davicafu/tiendalab/internal/shared/utils"

	_ "modernc.org/sqlite"
)

// ProjectionRepoSQLite implementa ProjectionRepository sobre SQLite, pensado
// para despliegues locales sin MongoDB.
type ProjectionRepoSQLite struct {
	db *sql.DB
}

func NewProjectionRepoSQLite(db *sql.DB) *ProjectionRepoSQLite {
	return &ProjectionRepoSQLite{db: db}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Productos ---

func (r *ProjectionRepoSQLite) InsertProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO product_projections (id, seller_id, name, description, category, stock, price_amount, discount_price, currency, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Stock, p.PriceAmount, p.DiscountPrice, p.Currency, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoSQLite) MergeProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO product_projections (id, seller_id, name, description, category, stock, price_amount, discount_price, currency, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			seller_id=excluded.seller_id, name=excluded.name, description=excluded.description,
			category=excluded.category, stock=excluded.stock, price_amount=excluded.price_amount,
			discount_price=excluded.discount_price, currency=excluded.currency, updated_at=excluded.updated_at`,
		p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Stock, p.PriceAmount, p.DiscountPrice, p.Currency, p.UpdatedAt,
	)
	return err
}

func (r *ProjectionRepoSQLite) UpdateProductStock(ctx context.Context, id string, stock int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO product_projections (id, seller_id, name, description, category, stock, price_amount, currency, updated_at)
		 VALUES (?, '', '', '', '', ?, 0, '', ?)
		 ON CONFLICT(id) DO UPDATE SET stock=excluded.stock, updated_at=excluded.updated_at`,
		id, stock, time.Now().UTC(),
	)
	return err
}

func (r *ProjectionRepoSQLite) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM product_projections WHERE id=?`, id)
	return err
}

// --- Pedidos ---

func (r *ProjectionRepoSQLite) InsertOrder(ctx context.Context, o dashDomain.OrderProjection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_projections (id, user_id, item_count, total_amount, currency, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.ItemCount, o.TotalAmount, o.Currency, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoSQLite) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_projections (id, user_id, item_count, total_amount, currency, status, created_at, updated_at)
		 VALUES (?, '', 0, 0, '', ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status, updated_at=excluded.updated_at`,
		id, status, time.Now().UTC(), time.Now().UTC(),
	)
	return err
}

// --- Pagos ---

func (r *ProjectionRepoSQLite) InsertPayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_projections (id, order_id, user_id, amount, currency, status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrderID, p.UserID, p.Amount, p.Currency, p.Status, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoSQLite) MergePayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_projections (id, order_id, user_id, amount, currency, status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			order_id=excluded.order_id, user_id=excluded.user_id, amount=excluded.amount,
			currency=excluded.currency, status=excluded.status, updated_at=excluded.updated_at`,
		p.ID, p.OrderID, p.UserID, p.Amount, p.Currency, p.Status, p.UpdatedAt,
	)
	return err
}

// --- Lectura ---

func (r *ProjectionRepoSQLite) GetProduct(ctx context.Context, id string) (*dashDomain.ProductProjection, error) {
	var p dashDomain.ProductProjection
	err := r.db.QueryRowContext(ctx,
		`SELECT id, seller_id, name, description, category, stock, price_amount, discount_price, currency, updated_at
		 FROM product_projections WHERE id=?`, id,
	).Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Stock, &p.PriceAmount, &p.DiscountPrice, &p.Currency, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dashDomain.ErrProjectionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *ProjectionRepoSQLite) ListProductsBySeller(ctx context.Context, sellerID string) ([]dashDomain.ProductProjection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, seller_id, name, description, category, stock, price_amount, discount_price, currency, updated_at
		 FROM product_projections WHERE seller_id=? ORDER BY name`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []dashDomain.ProductProjection
	for rows.Next() {
		var p dashDomain.ProductProjection
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Stock, &p.PriceAmount, &p.DiscountPrice, &p.Currency, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProjectionRepoSQLite) GetOrder(ctx context.Context, id string) (*dashDomain.OrderProjection, error) {
	var o dashDomain.OrderProjection
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, item_count, total_amount, currency, status, created_at, updated_at
		 FROM order_projections WHERE id=?`, id,
	).Scan(&o.ID, &o.UserID, &o.ItemCount, &o.TotalAmount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dashDomain.ErrProjectionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &o, nil
}

func (r *ProjectionRepoSQLite) ListOrders(ctx context.Context, limit int) ([]dashDomain.OrderProjection, error) {
	return r.listOrders(ctx, limit, true)
}

func (r *ProjectionRepoSQLite) listOrders(ctx context.Context, limit int, newestFirst bool) ([]dashDomain.OrderProjection, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, item_count, total_amount, currency, status, created_at, updated_at
		 FROM order_projections ORDER BY created_at %s LIMIT ?`,
		sharedUtils.Ternary(newestFirst, "DESC", "ASC"))

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []dashDomain.OrderProjection
	for rows.Next() {
		var o dashDomain.OrderProjection
		if err := rows.Scan(&o.ID, &o.UserID, &o.ItemCount, &o.TotalAmount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *ProjectionRepoSQLite) ListPayments(ctx context.Context, limit int) ([]dashDomain.PaymentProjection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, user_id, amount, currency, status, updated_at
		 FROM payment_projections ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []dashDomain.PaymentProjection
	for rows.Next() {
		var p dashDomain.PaymentProjection
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// --- Inicialización ---

func InitSQLite(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS product_projections (
			id TEXT PRIMARY KEY,
			seller_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			stock INTEGER NOT NULL,
			price_amount REAL NOT NULL,
			discount_price REAL,
			currency TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_projections (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			total_amount REAL NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payment_projections (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			amount REAL NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Verificación estática
var _ dashDomain.ProjectionRepository = (*ProjectionRepoSQLite)(nil)
