package company

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested company does not exist.
var ErrNotFound = errors.New("company not found")

// Company represents a corporate customer whose employees place orders.
type Company struct {
	ID            string
	Name          string
	Address       string
	ContactNumber string
}

// Repository defines read operations for companies. Companies are created and
// maintained by administrative flows outside this service.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	GetByIDs(ctx context.Context, ids []string) ([]Company, error)
	Count(ctx context.Context) (int64, error)
}
