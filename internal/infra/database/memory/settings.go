package memory

import (
	"context"

	"github.com/xavierca1/lead-portal/internal/entity"
)

type SettingsRepository struct {
	db *settingsTable
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db.settings}
}

// Get returns a copy; callers change settings only through Set.
func (r *SettingsRepository) Get(_ context.Context) (entity.Settings, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.db.row, nil
}

func (r *SettingsRepository) Set(_ context.Context, s entity.Settings) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	r.db.row = s
	return nil
}
