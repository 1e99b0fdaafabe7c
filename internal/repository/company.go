package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunchcrew/lunch-api/internal/domain/company"
)

const (
	companyColumns = `id, name, address, contact_number`

	listCompaniesSQL = `SELECT ` + companyColumns + ` FROM companies ORDER BY name`

	getCompanyByIDSQL = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	getCompaniesByIDsSQL = `SELECT ` + companyColumns + ` FROM companies WHERE id = ANY($1)`

	countCompaniesSQL = `SELECT count(*) FROM companies`
)

var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository implements company.Repository backed by PostgreSQL.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a CompanyRepository that uses the given pool.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// List returns every company ordered by name.
func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	rows, err := r.pool.Query(ctx, listCompaniesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	return pgx.CollectRows(rows, scanCompany)
}

// GetByID returns a single company by its identifier.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*company.Company, error) {
	rows, err := r.pool.Query(ctx, getCompanyByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting company %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCompany)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrNotFound
		}
		return nil, fmt.Errorf("getting company %q: %w", id, err)
	}
	return &c, nil
}

// GetByIDs returns companies matching any of the given IDs.
func (r *CompanyRepository) GetByIDs(ctx context.Context, ids []string) ([]company.Company, error) {
	rows, err := r.pool.Query(ctx, getCompaniesByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting companies by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanCompany)
}

// Count returns the total number of companies.
func (r *CompanyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countCompaniesSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting companies: %w", err)
	}
	return n, nil
}

func scanCompany(row pgx.CollectableRow) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.ContactNumber)
	return c, err
}
