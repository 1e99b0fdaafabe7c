// Package db embeds the SQL migration files applied at startup.
package db

import _ "embed"

// Schema holds the DDL for the companies, users, menu items, orders and
// feedback tables.
//
//go:embed migrations/001_schema.sql
var Schema string
