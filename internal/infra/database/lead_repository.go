package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/lead-portal/internal/entity"
)

const leadColumns = `id, student_id, name, email, mobile, category, class, batch, method, status, notes, created_at`

type LeadRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db, now: time.Now}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) (string, error) {
	if err := lead.CheckRequired(); err != nil {
		return "", err
	}

	lead.ID = uuid.New().String()
	lead.Status = entity.StatusNew
	lead.CreatedAt = r.now().UTC()

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		nullString(lead.OwnerID),
		lead.Name,
		nullString(lead.Email),
		lead.Mobile,
		lead.Category,
		lead.Class,
		lead.Batch,
		string(lead.Method),
		string(lead.Status),
		nullString(lead.Notes),
		lead.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert lead: %w", err)
	}

	return lead.ID, nil
}

// ListAll returns every lead, newest first. Leads created at the same
// instant come back in reverse insertion order.
func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, seq DESC`
	return r.query(ctx, query)
}

func (r *LeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE student_id = $1 ORDER BY seq`
	return r.query(ctx, query, ownerID)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", id, err)
	}
	return lead, nil
}

// UpdateStatus touches only the status column so concurrent edits to other
// fields are not overwritten.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if rows == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) query(ctx context.Context, query string, args ...interface{}) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead                  entity.Lead
		ownerID, email, notes sql.NullString
		method, status        string
	)

	err := row.Scan(
		&lead.ID,
		&ownerID,
		&lead.Name,
		&email,
		&lead.Mobile,
		&lead.Category,
		&lead.Class,
		&lead.Batch,
		&method,
		&status,
		&notes,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.OwnerID = ownerID.String
	lead.Email = email.String
	lead.Notes = notes.String
	lead.Method = entity.Method(method)
	lead.Status = entity.Status(status)
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
