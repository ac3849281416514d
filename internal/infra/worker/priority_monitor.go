package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

var priorityLeadsWaiting = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "priority_leads_waiting",
		Help: "Assisted-sale leads still New or Contacted after the response window",
	},
)

// PriorityMonitor periodically counts assisted-sale leads that nobody has
// moved forward within the response window.
type PriorityMonitor struct {
	leads          entity.LeadRepository
	responseWindow time.Duration
	tickInterval   time.Duration
	now            func() time.Time
	log            logrus.FieldLogger
}

func NewPriorityMonitor(leads entity.LeadRepository, responseWindow time.Duration, log logrus.FieldLogger) *PriorityMonitor {
	return &PriorityMonitor{
		leads:          leads,
		responseWindow: responseWindow,
		tickInterval:   time.Minute,
		now:            time.Now,
		log:            log,
	}
}

func (w *PriorityMonitor) Start(ctx context.Context) {
	w.log.WithField("window", w.responseWindow.String()).Info("priority monitor started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.check(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("priority monitor stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check returns the overdue leads, oldest last as listed by the repository.
func (w *PriorityMonitor) check(ctx context.Context) []entity.Lead {
	leads, err := w.leads.ListAll(ctx)
	if err != nil {
		w.log.WithError(err).Error("failed to list leads")
		return nil
	}

	cutoff := w.now().Add(-w.responseWindow)
	overdue := []entity.Lead{}
	for _, l := range usecase.Priority(leads) {
		if l.CreatedAt.Before(cutoff) {
			overdue = append(overdue, l)
		}
	}

	priorityLeadsWaiting.Set(float64(len(overdue)))
	if len(overdue) > 0 {
		w.log.WithFields(logrus.Fields{
			"count":  len(overdue),
			"oldest": overdue[len(overdue)-1].ID,
		}).Warn("assisted sale leads waiting for an ambassador")
	}
	return overdue
}
