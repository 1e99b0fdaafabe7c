package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunchcrew/lunch-api/internal/domain/catalog"
)

const (
	listMenuItemsSQL = `SELECT id, name, price FROM menu_items ORDER BY id`

	getMenuItemByIDSQL = `SELECT id, name, price FROM menu_items WHERE id = $1`

	getMenuItemsByIDsSQL = `SELECT id, name, price FROM menu_items WHERE id = ANY($1)`
)

var _ catalog.Repository = (*MenuItemRepository)(nil)

// MenuItemRepository implements catalog.Repository backed by PostgreSQL.
type MenuItemRepository struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository returns a MenuItemRepository that uses the given pool.
func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

// List returns the whole menu ordered by ID.
func (r *MenuItemRepository) List(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu item by its identifier.
func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}

	mi, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &mi, nil
}

// GetByIDs returns menu items matching any of the given IDs.
func (r *MenuItemRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var mi catalog.MenuItem
	err := row.Scan(&mi.ID, &mi.Name, &mi.Price)
	return mi, err
}
