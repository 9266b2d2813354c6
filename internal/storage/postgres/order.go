package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cloudkitchen/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, items, total, status, created_at)
	VALUES ($1, $2, $3, $4, $5)`

	listOrdersSQL = `SELECT id, items, total, status, created_at
	FROM orders ORDER BY created_at DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The opaque items payload goes into the JSONB
// column as-is; an absent payload is stored as JSON null.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	items := []byte(o.Items)
	if len(items) == 0 {
		items = []byte("null")
	}

	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, items, o.Total, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		var (
			o      order.Order
			items  []byte
			status string
		)
		if err := rows.Scan(&o.ID, &items, &o.Total, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		o.Items = items
		o.Status = order.Status(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus overwrites the status of the order with the given id. Returns
// order.ErrNotFound when no row matches, so the caller can distinguish a
// missing order from a successful update.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
