package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state of an order. There is no payment gateway
// in scope, so completed is the only state reachable today; the type leaves
// room for pending/failed without breaking callers.
type PaymentStatus string

// PaymentCompleted is assigned to every order at creation.
const PaymentCompleted PaymentStatus = "completed"

// Status is the fulfillment state of an order.
type Status string

// StatusOrdered is assigned to every order at creation. No status-transition
// endpoint exists in this service.
const StatusOrdered Status = "ordered"

// LineItem is one (menu item, quantity, extras) tuple within an order.
// Line items are immutable once the order exists.
type LineItem struct {
	ItemID   string   `json:"itemId"`
	Quantity int      `json:"quantity"`
	Extras   []string `json:"extras"`
}

// Order represents a placed meal order.
type Order struct {
	ID            string
	UserID        string
	Items         []LineItem
	TotalPrice    decimal.Decimal
	PaymentMethod string
	PaymentStatus PaymentStatus
	DeliveryDate  time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]Order, error)
	ListByDeliveryWindow(ctx context.Context, from, to time.Time) ([]Order, error)
	ListByUserIDsAndDeliveryWindow(ctx context.Context, userIDs []string, from, to time.Time) ([]Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	RevenueByWeekday(ctx context.Context, from, to time.Time) (map[time.Weekday]decimal.Decimal, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}
