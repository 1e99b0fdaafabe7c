// Command seed-db loads the catalog fixture (companies, users, menu items)
// into PostgreSQL. It is idempotent: rows are upserted by primary key, so it
// can be re-run against a live database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lunchcrew/lunch-api/internal/repository"
)

type catalogJSON struct {
	Companies []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Address       string `json:"address"`
		ContactNumber string `json:"contactNumber"`
	} `json:"companies"`
	Users []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		FullName    string  `json:"fullName"`
		Email       string  `json:"email"`
		PhoneNumber string  `json:"phoneNumber"`
		CompanyID   *string `json:"companyId"`
	} `json:"users"`
	MenuItems []struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	} `json:"menuItems"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	if err := seedCompanies(ctx, pool, catalog); err != nil {
		return errors.Wrap(err, "seed companies")
	}
	if err := seedUsers(ctx, pool, catalog); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedMenuItems(ctx, pool, catalog); err != nil {
		return errors.Wrap(err, "seed menu items")
	}

	return nil
}

func seedCompanies(ctx context.Context, pool *pgxpool.Pool, catalog catalogJSON) error {
	slog.Info("upserting companies", slog.Int("count", len(catalog.Companies)))

	const q = `
		INSERT INTO companies (id, name, address, contact_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			contact_number = EXCLUDED.contact_number`

	for _, c := range catalog.Companies {
		if _, err := pool.Exec(ctx, q, c.ID, c.Name, c.Address, c.ContactNumber); err != nil {
			return errors.Wrapf(err, "upsert company %s", c.ID)
		}

		slog.Info("upserted company", slog.String("id", c.ID), slog.String("name", c.Name))
	}

	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, catalog catalogJSON) error {
	slog.Info("upserting users", slog.Int("count", len(catalog.Users)))

	const q = `
		INSERT INTO users (id, name, full_name, email, phone_number, company_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			company_id = EXCLUDED.company_id`

	for _, u := range catalog.Users {
		if _, err := pool.Exec(ctx, q, u.ID, u.Name, u.FullName, u.Email, u.PhoneNumber, u.CompanyID); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.ID)
		}

		slog.Info("upserted user", slog.String("id", u.ID), slog.String("name", u.Name))
	}

	return nil
}

func seedMenuItems(ctx context.Context, pool *pgxpool.Pool, catalog catalogJSON) error {
	slog.Info("upserting menu items", slog.Int("count", len(catalog.MenuItems)))

	const q = `
		INSERT INTO menu_items (id, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price`

	for _, m := range catalog.MenuItems {
		if _, err := pool.Exec(ctx, q, m.ID, m.Name, m.Price); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", m.ID)
		}

		slog.Info("upserted menu item", slog.String("id", m.ID), slog.String("name", m.Name))
	}

	return nil
}
