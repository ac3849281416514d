package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrContractViolation = errors.New("lead is missing required fields")
)

// Method is the acquisition channel of a lead. It never changes after insert.
type Method string

const (
	MethodCouponRequest Method = "coupon_request"
	MethodAssistedSale  Method = "assisted_sale"
)

func (m Method) Valid() bool {
	return m == MethodCouponRequest || m == MethodAssistedSale
}

// Lead is one submitted interest record.
type Lead struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"student_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile"`
	Category  string    `json:"category"`
	Class     string    `json:"class"`
	Batch     string    `json:"batch"`
	Method    Method    `json:"method"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Notes     string    `json:"notes,omitempty"`
}

// CheckRequired reports whether the fields every stored lead must carry are
// present. Repositories call it on insert; user-facing validation happens
// earlier in the intake use cases.
func (l *Lead) CheckRequired() error {
	switch {
	case strings.TrimSpace(l.Name) == "",
		strings.TrimSpace(l.Mobile) == "",
		strings.TrimSpace(l.Category) == "",
		strings.TrimSpace(l.Class) == "",
		strings.TrimSpace(l.Batch) == "",
		!l.Method.Valid():
		return ErrContractViolation
	}
	return nil
}

type LeadRepository interface {
	Insert(ctx context.Context, lead *Lead) (string, error)
	ListAll(ctx context.Context) ([]Lead, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
