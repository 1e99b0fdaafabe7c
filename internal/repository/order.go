package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lunchcrew/lunch-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, items, total_price, payment_method, payment_status, delivery_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	orderColumns = `id, user_id, items, total_price, payment_method, payment_status, delivery_date, status, created_at, updated_at`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at`

	listOrdersByUsersSQL = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ANY($1) ORDER BY created_at`

	listOrdersByDeliverySQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE delivery_date >= $1 AND delivery_date < $2 ORDER BY created_at`

	listOrdersByUsersAndDeliverySQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = ANY($1) AND delivery_date >= $2 AND delivery_date < $3 ORDER BY created_at`

	listRecentOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`

	countOrdersCreatedSQL = `SELECT count(*) FROM orders WHERE created_at >= $1 AND created_at < $2`

	revenueByWeekdaySQL = `SELECT EXTRACT(DOW FROM created_at)::int AS dow, COALESCE(SUM(total_price), 0)
		FROM orders WHERE created_at >= $1 AND created_at < $2 GROUP BY dow`

	totalRevenueSQL = `SELECT COALESCE(SUM(total_price), 0) FROM orders`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are stored in a JSONB column alongside the order row.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.TotalPrice, o.PaymentMethod,
		string(o.PaymentStatus), o.DeliveryDate, string(o.Status),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// ListAll returns every order ordered by creation time.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByUser returns the given user's orders.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByUserIDs returns all orders belonging to any of the given users.
func (r *OrderRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUsersSQL, userIDs)
	if err != nil {
		return nil, fmt.Errorf("listing orders by users: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByDeliveryWindow returns orders with delivery_date in [from, to).
func (r *OrderRepository) ListByDeliveryWindow(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByDeliverySQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing orders by delivery window: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByUserIDsAndDeliveryWindow returns the given users' orders with
// delivery_date in [from, to).
func (r *OrderRepository) ListByUserIDsAndDeliveryWindow(ctx context.Context, userIDs []string, from, to time.Time) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUsersAndDeliverySQL, userIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing orders by users and delivery window: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListRecent returns the most recently created orders, newest first.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listRecentOrdersSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// CountCreatedBetween counts orders with created_at in [from, to).
func (r *OrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countOrdersCreatedSQL, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

// RevenueByWeekday sums total_price per day of week (0 = Sunday) over orders
// created in [from, to). Days with no orders are absent from the map.
func (r *OrderRepository) RevenueByWeekday(ctx context.Context, from, to time.Time) (map[time.Weekday]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, revenueByWeekdaySQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue by weekday: %w", err)
	}
	defer rows.Close()

	revenue := make(map[time.Weekday]decimal.Decimal, 7)
	for rows.Next() {
		var (
			dow int
			sum decimal.Decimal
		)
		if err := rows.Scan(&dow, &sum); err != nil {
			return nil, fmt.Errorf("scanning weekday revenue: %w", err)
		}
		revenue[time.Weekday(dow)] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revenue by weekday: %w", err)
	}

	return revenue, nil
}

// TotalRevenue sums total_price across all orders.
func (r *OrderRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, totalRevenueSQL).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		payment   string
		status    string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.TotalPrice, &o.PaymentMethod,
		&payment, &o.DeliveryDate, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.PaymentStatus = order.PaymentStatus(payment)
	o.Status = order.Status(status)
	return o, nil
}
