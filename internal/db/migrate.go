package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPlanVersion(db); err != nil {
		return fmt.Errorf("backfilling plan versions: %w", err)
	}
	return nil
}

// migrateBackfillPlanVersion gives plans written before optimistic locking a
// starting version so the first versioned save has something to compare against.
func migrateBackfillPlanVersion(db *sql.DB) error {
	ctx := context.Background()
	res, err := db.ExecContext(ctx, `UPDATE plans SET version = 1 WHERE version < 1`)
	if err != nil {
		return fmt.Errorf("updating plans: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("counting backfilled plans: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id            TEXT PRIMARY KEY,
		store_name    TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		package_type  TEXT NOT NULL,
		customer_type TEXT NOT NULL DEFAULT 'Paid'
		              CHECK(customer_type IN ('Paid','Free')),
		date_joined   TEXT NOT NULL,
		is_active     INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plans (
		customer_id TEXT PRIMARY KEY REFERENCES customers(id) ON DELETE CASCADE,
		sections    TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rule_catalogs (
		id         TEXT PRIMARY KEY,
		sections   TEXT NOT NULL DEFAULT '[]',
		tasks      TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_package ON customers(package_type)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_type ON customers(customer_type, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_store_name ON customers(store_name)`,
	// Optimistic locking on plan documents.
	`ALTER TABLE plans ADD COLUMN version INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE rule_catalogs ADD COLUMN updated_by TEXT NOT NULL DEFAULT ''`,
}
