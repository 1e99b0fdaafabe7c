package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User represents an employee who places orders. CompanyID is nil for users
// not attached to any company.
type User struct {
	ID          string
	Name        string
	FullName    string
	Email       string
	PhoneNumber string
	CompanyID   *string
}

// Repository defines read operations for users. Users are created and
// maintained by administrative flows outside this service.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
	Count(ctx context.Context) (int64, error)
}
