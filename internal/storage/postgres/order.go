package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaiqapos/pos-api/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items live in their own table and are loaded alongside each order.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, customer_name, customer_phone, table_number,
	subtotal, tax_amount, total, payment_method, status, notes, created_at, completed_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerName, &o.CustomerPhone, &o.TableNumber,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.PaymentMethod, &o.Status, &o.Notes,
		&o.CreatedAt, &o.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persists a new order and its line items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_phone, table_number,
			subtotal, tax_amount, total, payment_method, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Number, o.CustomerName, o.CustomerPhone, o.TableNumber,
		o.Subtotal, o.TaxAmount, o.Total, string(o.PaymentMethod), string(o.Status),
		o.Notes, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, line := range o.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, item_name, quantity, unit_price, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), o.ID, line.Name, line.Quantity, line.UnitPrice, line.Note)
		if err != nil {
			return fmt.Errorf("creating order line %q: %w", line.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// List returns all orders with their lines, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
}

// ListByStatus returns orders in the given status, newest first.
func (r *OrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC",
		string(status))
}

// ListSince returns orders created at or after the given time.
func (r *OrderRepository) ListSince(ctx context.Context, since time.Time) ([]order.Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE created_at >= $1 ORDER BY created_at DESC",
		since)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	index := make(map[string]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT order_id, item_name, quantity, unit_price, notes
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("listing order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			orderID string
			line    order.Line
		)
		if err := lineRows.Scan(&orderID, &line.Name, &line.Quantity, &line.UnitPrice, &line.Note); err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	return orders, lineRows.Err()
}

// GetByID returns a single order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &order.NotFoundError{OrderID: id}
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT item_name, quantity, unit_price, notes
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("getting order lines for %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line order.Line
		if err := rows.Scan(&line.Name, &line.Quantity, &line.UnitPrice, &line.Note); err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		o.Lines = append(o.Lines, line)
	}
	return o, rows.Err()
}

// UpdateStatus overwrites the status and, when provided, the completion time.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status, completedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE orders SET status = $2, completed_at = COALESCE($3, completed_at) WHERE id = $1",
		id, string(status), completedAt)
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &order.NotFoundError{OrderID: id}
	}
	return nil
}

// Delete removes an order; line items cascade.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &order.NotFoundError{OrderID: id}
	}
	return nil
}

// NextSequence atomically claims the next order number.
func (r *OrderRepository) NextSequence(ctx context.Context) (int64, error) {
	var next int64
	err := r.pool.QueryRow(ctx,
		"UPDATE order_sequence SET next = next + 1 WHERE id = 1 RETURNING next - 1").Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("claiming order sequence: %w", err)
	}
	return next, nil
}
