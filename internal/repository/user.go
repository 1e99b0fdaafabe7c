package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunchcrew/lunch-api/internal/domain/user"
)

const (
	userColumns = `id, name, full_name, email, phone_number, company_id`

	listUsersSQL = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	getUsersByIDsSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	listUsersByCompanySQL = `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 ORDER BY id`

	countUsersSQL = `SELECT count(*) FROM users`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// List returns every user.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// GetByID returns a single user by its identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}
	return &u, nil
}

// GetByIDs returns users matching any of the given IDs.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, getUsersByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting users by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// ListByCompany returns all users attached to the given company.
func (r *UserRepository) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersByCompanySQL, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing users for company %q: %w", companyID, err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.FullName, &u.Email, &u.PhoneNumber, &u.CompanyID)
	return u, err
}
