// Package report provides read-only aggregation over existing orders: the
// enriched order list, the business-overview snapshot, per-company groupings,
// and the delivery-date exports. Every call computes a fresh snapshot; nothing
// here mutates state.
package report

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/lunchcrew/lunch-api/internal/domain/order"
)

// UnknownCompanyKey buckets orders whose user or company reference cannot be
// resolved. This is an explicit policy, not an accident: counts grouped under
// this key carry a nil company ID and the literal name "Unknown".
const UnknownCompanyKey = "Unknown"

// unresolvedPlaceholder renders missing requester references in the recent
// orders view.
const unresolvedPlaceholder = "N/A"

// Sentinel errors for empty result sets. All map to not-found at the handler
// boundary.
var (
	ErrNoOrders     = errors.New("no orders found")
	ErrNoOrdersUser = errors.New("no orders found for this user")
	ErrNoCompanies  = errors.New("no companies found")
)

// CompanyNotFoundError indicates the requested company does not exist.
type CompanyNotFoundError struct {
	CompanyID string
}

func (e *CompanyNotFoundError) Error() string {
	return fmt.Sprintf("no company found with ID %s", e.CompanyID)
}

// NoUsersForCompanyError indicates a company has no users to report over.
type NoUsersForCompanyError struct {
	CompanyID string
}

func (e *NoUsersForCompanyError) Error() string {
	return fmt.Sprintf("no users found for company with ID %s", e.CompanyID)
}

// NoOrdersForDateError indicates zero orders matched a delivery-date window.
type NoOrdersForDateError struct {
	CompanyID string // empty when the query was not company-scoped
	Date      string
}

func (e *NoOrdersForDateError) Error() string {
	if e.CompanyID == "" {
		return fmt.Sprintf("no orders found for delivery date %s", e.Date)
	}
	return fmt.Sprintf("no orders found for company with ID %s on %s", e.CompanyID, e.Date)
}

// CompanyView is the company slice of an enriched order.
type CompanyView struct {
	ID            string
	Name          string
	Address       string
	ContactNumber string
}

// UserView is the requester slice of an enriched order. Company is nil when
// the user has no company reference.
type UserView struct {
	ID          string
	Name        string
	FullName    string
	Email       string
	PhoneNumber string
	Company     *CompanyView
}

// ItemView is a line item with its catalog name and price inlined. Unresolved
// items render with the name "Unknown" and a zero price.
type ItemView struct {
	ItemID   string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Extras   []string
}

// OrderView is one fully enriched order.
type OrderView struct {
	OrderID       string
	User          UserView
	Items         []ItemView
	TotalPrice    decimal.Decimal
	PaymentMethod string
	PaymentStatus order.PaymentStatus
	DeliveryDate  time.Time
	Status        order.Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WeekdayRevenue is one bucket of the weekly revenue breakdown.
type WeekdayRevenue struct {
	Day          string
	TotalRevenue decimal.Decimal
}

// RecentOrder is a recently created order reduced to requester contact
// details. Unresolved references render as "N/A".
type RecentOrder struct {
	EmployeeName string
	EmailAddress string
	PhoneNumber  string
	CompanyName  string
	CreatedAt    time.Time
}

// Insight is the business-overview snapshot, computed fresh per call as of
// the supplied clock reading.
type Insight struct {
	OrdersToday     int64
	OrdersThisWeek  int64
	OrdersThisMonth int64
	TotalRevenue    decimal.Decimal
	TotalCompanies  int64
	TotalEmployees  int64
	RecentOrders    []RecentOrder
	AverageReview   float64
	ReviewCount     int64
	WeeklyRevenue   []WeekdayRevenue
}

// CompanyOrders groups a company's orders with their count. Companies with no
// users yield a zero-count entry with an empty slice.
type CompanyOrders struct {
	CompanyName string
	OrderCount  int
	Orders      []order.Order
}

// CompanyCount is one per-company bucket of the delivery-date count report.
// CompanyID is nil for the "Unknown" bucket.
type CompanyCount struct {
	CompanyID   *string
	CompanyName string
	OrderCount  int
}

// ExportRow is one spreadsheet row of the company/date export: one row per
// (order, line item) pair.
type ExportRow struct {
	OrderID      string
	UserID       string
	DeliveryDate string
	Status       string
	ItemName     string
	Quantity     int
	Extras       string
	TotalPrice   float64
}

// DayWindow returns the half-open UTC interval [midnight, next midnight)
// covering the calendar day of t.
func DayWindow(t time.Time) (from, to time.Time) {
	u := t.UTC()
	from = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
