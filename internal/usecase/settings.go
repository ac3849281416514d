package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
)

type SettingsUseCase struct {
	Repo entity.SettingsRepository
	log  logrus.FieldLogger
}

func NewSettingsUseCase(repo entity.SettingsRepository, log logrus.FieldLogger) *SettingsUseCase {
	return &SettingsUseCase{Repo: repo, log: log}
}

// Public returns the settings any visitor may see.
func (uc *SettingsUseCase) Public(ctx context.Context) (*PublicSettings, error) {
	s, err := uc.Repo.Get(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "load settings", Err: err}
	}
	return &PublicSettings{
		WhatsAppNumber: s.WhatsAppNumber,
		AmbassadorName: s.AmbassadorName,
	}, nil
}

func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.Settings, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	s, err := uc.Repo.Get(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "load settings", Err: err}
	}
	return &s, nil
}

// Update replaces the whole record.
func (uc *SettingsUseCase) Update(ctx context.Context, input entity.Settings) (*entity.Settings, error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	s := input.Normalize()
	if err := s.Validate(); err != nil {
		return nil, ValidationError{"settings", err.Error()}
	}

	if err := uc.Repo.Set(ctx, s); err != nil {
		return nil, &CollaboratorError{Op: "save settings", Err: err}
	}

	uc.log.WithFields(logrus.Fields{
		"coupon": s.ActiveCoupon,
		"by":     admin.ID,
	}).Info("settings updated")

	return &s, nil
}
