package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-portal/internal/entity"
)

type LeadRepository struct {
	db *leadTable
}

func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db.leads}
}

func (r *LeadRepository) Insert(_ context.Context, lead *entity.Lead) (string, error) {
	if err := lead.CheckRequired(); err != nil {
		return "", err
	}

	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	lead.ID = uuid.New().String()
	lead.Status = entity.StatusNew
	lead.CreatedAt = r.db.now()

	r.db.rows = append(r.db.rows, *lead)
	return lead.ID, nil
}

// ListAll returns leads newest first; equal timestamps are ordered by
// reverse insertion.
func (r *LeadRepository) ListAll(_ context.Context) ([]entity.Lead, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]entity.Lead, 0, len(r.db.rows))
	for i := len(r.db.rows) - 1; i >= 0; i-- {
		res = append(res, r.db.rows[i])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (r *LeadRepository) ListByOwner(_ context.Context, ownerID string) ([]entity.Lead, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := []entity.Lead{}
	for _, l := range r.db.rows {
		if l.OwnerID == ownerID {
			res = append(res, l)
		}
	}
	return res, nil
}

func (r *LeadRepository) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		lead := r.db.rows[i]
		return &lead, nil
	}
	return nil, entity.ErrLeadNotFound
}

func (r *LeadRepository) UpdateStatus(_ context.Context, id string, status entity.Status) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return entity.ErrLeadNotFound
	}
	r.db.rows[i].Status = status
	return nil
}

func (r *LeadRepository) Delete(_ context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.db.rows = append(r.db.rows[:i], r.db.rows[i+1:]...)
	}
	return nil
}

// indexOf must be called with the mutex held.
func (r *LeadRepository) indexOf(id string) int {
	for i := range r.db.rows {
		if r.db.rows[i].ID == id {
			return i
		}
	}
	return -1
}
