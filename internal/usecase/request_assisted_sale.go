package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/integration/whatsapp"
	"github.com/xavierca1/lead-portal/internal/infra/queue"
	"github.com/xavierca1/lead-portal/internal/session"
)

type RequestAssistedSaleUseCase struct {
	Leads    entity.LeadRepository
	Settings entity.SettingsRepository
	Events   EventPublisher
	log      logrus.FieldLogger
}

// NewRequestAssistedSaleUseCase builds the use case. events may be nil when
// no CRM sync is configured.
func NewRequestAssistedSaleUseCase(
	leads entity.LeadRepository,
	settings entity.SettingsRepository,
	events EventPublisher,
	log logrus.FieldLogger,
) *RequestAssistedSaleUseCase {
	return &RequestAssistedSaleUseCase{
		Leads:    leads,
		Settings: settings,
		Events:   events,
		log:      log,
	}
}

// Execute records an assisted-sale request and returns the chat link the
// student opens to reach the ambassador. Nothing is sent from here.
func (uc *RequestAssistedSaleUseCase) Execute(ctx context.Context, input LeadInput) (*RequestAssistedSaleOutput, error) {
	normalized := normalizeLeadInput(input)
	if err := ValidateAssistedSaleInput(normalized, input.Mobile); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Name:     normalized.Name,
		Email:    normalized.Email,
		Mobile:   normalized.Mobile,
		Category: normalized.Category,
		Class:    normalized.Class,
		Batch:    normalized.Batch,
		Method:   entity.MethodAssistedSale,
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

	if err := tx.Execute(ctx); err != nil {
		uc.log.WithError(err).WithField("batch", lead.Batch).Error("assisted sale request failed")
		return nil, &CollaboratorError{Op: "request assisted sale", Err: err}
	}

	uc.publish(ctx, lead)

	uc.log.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"method":  lead.Method,
		"owner":   lead.OwnerID,
	}).Info("assisted sale request captured")

	return &RequestAssistedSaleOutput{
		LeadID:   lead.ID,
		ChatLink: whatsapp.BuildChatLink(settings.WhatsAppNumber, AssistedSaleMessage(lead)),
	}, nil
}

// publish is best effort: the ambassador still gets the chat message even
// if the CRM never hears about the lead.
func (uc *RequestAssistedSaleUseCase) publish(ctx context.Context, lead *entity.Lead) {
	if uc.Events == nil {
		return
	}

	err := uc.Events.PublishAssistedSale(ctx, queue.AssistedSaleEvent{
		LeadID:   lead.ID,
		Name:     lead.Name,
		Mobile:   lead.Mobile,
		Email:    lead.Email,
		Category: lead.Category,
		Class:    lead.Class,
		Batch:    lead.Batch,
	})
	if err != nil {
		uc.log.WithError(err).WithField("lead_id", lead.ID).Warn("failed to publish assisted sale event")
	}
}

func AssistedSaleMessage(lead *entity.Lead) string {
	return fmt.Sprintf("Hi, I am interested in %s (%s). My Lead ID is %s. Please help with max discount!",
		lead.Batch, lead.Category, lead.ID)
}
