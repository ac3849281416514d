// Package memory keeps leads and settings in process memory. It backs the
// service when no DATABASE_URL is configured and is used throughout tests.
package memory

import (
	"sync"
	"time"

	"github.com/xavierca1/lead-portal/internal/entity"
)

type (
	DB struct {
		leads    *leadTable
		settings *settingsTable
	}

	leadTable struct {
		rows  []entity.Lead
		mutex sync.RWMutex
		now   func() time.Time
	}

	settingsTable struct {
		row   entity.Settings
		mutex sync.RWMutex
	}
)

func Open(defaults entity.Settings) *DB {
	return &DB{
		leads:    &leadTable{now: time.Now},
		settings: &settingsTable{row: defaults},
	}
}

// SetClock replaces the clock used to stamp new leads.
func (db *DB) SetClock(now func() time.Time) {
	db.leads.mutex.Lock()
	defer db.leads.mutex.Unlock()
	db.leads.now = now
}
