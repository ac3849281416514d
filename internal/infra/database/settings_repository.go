package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/lead-portal/internal/entity"
)

// SettingsRepository keeps the settings record in a one-row table.
type SettingsRepository struct {
	DB       *sql.DB
	defaults entity.Settings
}

// NewSettingsRepository returns a repository that serves defaults until an
// administrator saves the first record.
func NewSettingsRepository(db *sql.DB, defaults entity.Settings) *SettingsRepository {
	return &SettingsRepository{DB: db, defaults: defaults}
}

func (r *SettingsRepository) Get(ctx context.Context) (entity.Settings, error) {
	query := `SELECT active_coupon, whatsapp_number, ambassador_name FROM settings WHERE id = 1`

	var s entity.Settings
	err := r.DB.QueryRowContext(ctx, query).Scan(&s.ActiveCoupon, &s.WhatsAppNumber, &s.AmbassadorName)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaults, nil
	}
	if err != nil {
		return entity.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// Set replaces the whole record in a single statement.
func (r *SettingsRepository) Set(ctx context.Context, s entity.Settings) error {
	query := `
		INSERT INTO settings (id, active_coupon, whatsapp_number, ambassador_name, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			active_coupon = EXCLUDED.active_coupon,
			whatsapp_number = EXCLUDED.whatsapp_number,
			ambassador_name = EXCLUDED.ambassador_name,
			updated_at = NOW()
	`

	if _, err := r.DB.ExecContext(ctx, query, s.ActiveCoupon, s.WhatsAppNumber, s.AmbassadorName); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
