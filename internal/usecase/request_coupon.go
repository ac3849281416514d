package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/mail"
	"github.com/xavierca1/lead-portal/internal/session"
)

type RequestCouponUseCase struct {
	Leads      entity.LeadRepository
	Settings   entity.SettingsRepository
	Dispatcher CouponDispatcher
	log        logrus.FieldLogger
}

func NewRequestCouponUseCase(
	leads entity.LeadRepository,
	settings entity.SettingsRepository,
	dispatcher CouponDispatcher,
	log logrus.FieldLogger,
) *RequestCouponUseCase {
	return &RequestCouponUseCase{
		Leads:      leads,
		Settings:   settings,
		Dispatcher: dispatcher,
		log:        log,
	}
}

// Execute records a coupon request and sends the active coupon to the
// submitted email. The lead only survives if the dispatcher acknowledged
// the message.
func (uc *RequestCouponUseCase) Execute(ctx context.Context, input LeadInput) (*RequestCouponOutput, error) {
	normalized := normalizeLeadInput(input)
	if err := ValidateCouponInput(normalized, input.Mobile); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Name:     normalized.Name,
		Email:    normalized.Email,
		Mobile:   normalized.Mobile,
		Category: normalized.Category,
		Class:    normalized.Class,
		Batch:    normalized.Batch,
		Method:   entity.MethodCouponRequest,
	}
	if s := session.FromContext(ctx); s != nil {
		lead.OwnerID = s.ID
	}

	var settings entity.Settings

	tx := NewTransaction(uc.log)

	tx.AddOperation("insert_lead", func(ctx context.Context) error {
		_, err := uc.Leads.Insert(ctx, lead)
		return err
	})
	tx.AddCompensation("delete_lead", func(ctx context.Context) error {
		return uc.Leads.Delete(ctx, lead.ID)
	})

	tx.AddOperation("load_settings", func(ctx context.Context) error {
		var err error
		settings, err = uc.Settings.Get(ctx)
		return err
	})
	tx.AddCompensation("load_settings", nil)

	tx.AddOperation("dispatch_coupon", func(ctx context.Context) error {
		return uc.Dispatcher.DispatchCoupon(ctx, mail.CouponEmail{
			LeadID:         lead.ID,
			To:             lead.Email,
			Name:           lead.Name,
			Batch:          lead.Batch,
			Coupon:         settings.ActiveCoupon,
			AmbassadorName: settings.AmbassadorName,
		})
	})

	if err := tx.Execute(ctx); err != nil {
		uc.log.WithError(err).WithField("batch", lead.Batch).Error("coupon request failed")
		return nil, &CollaboratorError{Op: "request coupon", Err: err}
	}

	uc.log.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"method":  lead.Method,
	}).Info("coupon request captured")

	return &RequestCouponOutput{
		LeadID: lead.ID,
		SentTo: lead.Email,
	}, nil
}
