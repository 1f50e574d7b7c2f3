package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"easysmm-backend/internal/features/order/models"
	"easysmm-backend/internal/features/order/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.OrderRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateWithStats(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			order_id, user_id, service_id, service_name, target_url,
			quantity, amount_ton, amount_rub, memo_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		order.ID, order.UserID, order.ServiceID, order.ServiceName, order.URL,
		order.Quantity, order.AmountTON, order.AmountRUB, order.Memo, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// Atomic upsert-increment: concurrent submissions from the same user
	// must both be counted, so the addition happens in SQL, not in Go.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, total_orders, total_spent_ton)
		VALUES ($1, 1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			total_orders = user_stats.total_orders + 1,
			total_spent_ton = user_stats.total_spent_ton + EXCLUDED.total_spent_ton
	`, order.UserID, order.AmountTON)
	if err != nil {
		return fmt.Errorf("failed to increment user stats: %w", err)
	}

	return tx.Commit()
}

const orderColumns = `
	order_id, user_id, service_id, service_name, target_url,
	quantity, amount_ton, amount_rub, memo_id, status, created_at
`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.ServiceID, &o.ServiceName, &o.URL,
		&o.Quantity, &o.AmountTON, &o.AmountRUB, &o.Memo, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *postgresRepository) ListAll(ctx context.Context, limit int) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, to models.Status) error {
	// The guard is in the WHERE clause so two concurrent admin calls cannot
	// both resolve the same order.
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE order_id = $1 AND status = $3`,
		id, to, models.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: distinguish missing from already-terminal.
	var current models.Status
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE order_id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read order status: %w", err)
	}
	return repository.ErrNotActive
}
