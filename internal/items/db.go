package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrDriverUnsupported reports a storage driver other than sqlite or postgres.
var ErrDriverUnsupported = errors.New("items: unsupported storage driver")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB opens a bun database for driver and dsn.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("items: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "postgresql":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("items: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, driver)
	}
}

// Migrate creates the portfolio_items table when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("items: create portfolio_items: %w", err)
	}
	_, err := db.NewCreateIndex().
		Model((*Record)(nil)).
		Index("portfolio_items_priority_idx").
		Column("priority").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("items: index portfolio_items: %w", err)
	}
	return nil
}
