package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
)

var ErrTransitionNotAllowed = &DomainError{Code: "TRANSITION_NOT_ALLOWED", Message: "status change not allowed"}

type LeadsUseCase struct {
	Repo entity.LeadRepository
	log  logrus.FieldLogger
}

func NewLeadsUseCase(repo entity.LeadRepository, log logrus.FieldLogger) *LeadsUseCase {
	return &LeadsUseCase{Repo: repo, log: log}
}

// ListAll is restricted to administrators.
func (uc *LeadsUseCase) ListAll(ctx context.Context) ([]entity.Lead, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	leads, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "list leads", Err: err}
	}
	return leads, nil
}

// ListMine returns the leads owned by the signed-in actor.
func (uc *LeadsUseCase) ListMine(ctx context.Context) ([]entity.Lead, error) {
	s, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	leads, err := uc.Repo.ListByOwner(ctx, s.ID)
	if err != nil {
		return nil, &CollaboratorError{Op: "list own leads", Err: err}
	}
	return leads, nil
}

func (uc *LeadsUseCase) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ValidationError{"status", "unknown status"}
	}

	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, uc.lookupError(id, err)
	}
	if !entity.CanTransition(lead.Status, status) {
		return nil, ErrTransitionNotAllowed
	}

	if err := uc.Repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, uc.lookupError(id, err)
	}

	uc.log.WithFields(logrus.Fields{
		"lead_id": id,
		"from":    lead.Status,
		"to":      status,
		"by":      admin.ID,
	}).Info("lead status updated")

	lead.Status = status
	return lead, nil
}

func (uc *LeadsUseCase) lookupError(id string, err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &NotFoundError{Resource: "lead", ID: id}
	}
	return &CollaboratorError{Op: "update lead status", Err: err}
}
