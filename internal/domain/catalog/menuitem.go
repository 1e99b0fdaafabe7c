package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// MenuItem represents a dish available for ordering.
type MenuItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]MenuItem, error)
	GetByID(ctx context.Context, id string) (*MenuItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]MenuItem, error)
}
