package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		seq        BIGSERIAL UNIQUE,
		id         TEXT PRIMARY KEY,
		student_id TEXT,
		name       TEXT NOT NULL,
		email      TEXT,
		mobile     TEXT NOT NULL,
		category   TEXT NOT NULL,
		class      TEXT NOT NULL,
		batch      TEXT NOT NULL,
		method     TEXT NOT NULL CHECK (method IN ('coupon_request', 'assisted_sale')),
		status     TEXT NOT NULL DEFAULT 'New',
		notes      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_student_id ON leads (student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id              SMALLINT PRIMARY KEY CHECK (id = 1),
		active_coupon   TEXT NOT NULL,
		whatsapp_number TEXT NOT NULL,
		ambassador_name TEXT NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the repositories rely on. Every statement is
// idempotent, so it runs on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
