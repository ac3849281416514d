package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/infra/mail"
)

type CouponMailer interface {
	DispatchCoupon(ctx context.Context, msg mail.CouponEmail) error
}

// CRMClient pushes assisted-sale leads into the ambassador's CRM.
type CRMClient interface {
	SyncAssistedSale(ctx context.Context, event AssistedSaleEvent) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel consumer
	Mailer  CouponMailer
	CRM     CRMClient
	log     logrus.FieldLogger
}

// NewWorker builds a worker. crm may be nil, in which case assisted-sale
// events are acknowledged and dropped.
func NewWorker(ch *amqp.Channel, mailer CouponMailer, crm CRMClient, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
		CRM:     crm,
		log:     log,
	}
}

// Start consumes both work queues until ctx is cancelled or the channel
// closes.
func (w *Worker) Start(ctx context.Context) error {
	coupons, err := w.Channel.Consume(CouponQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", CouponQueue, err)
	}
	events, err := w.Channel.Consume(CRMQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", CRMQueue, err)
	}

	w.log.WithField("queues", []string{CouponQueue, CRMQueue}).Info("worker waiting for messages")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopped")
			return nil
		case d, ok := <-coupons:
			if !ok {
				return fmt.Errorf("%s delivery channel closed", CouponQueue)
			}
			w.handle(ctx, d)
		case d, ok := <-events:
			if !ok {
				return fmt.Errorf("%s delivery channel closed", CRMQueue)
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks on success. Failures are rejected without requeue so they
// land in the dead-letter queue instead of blocking the line.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	entry := w.log.WithField("routing_key", d.RoutingKey)

	if err := w.processMessage(ctx, d); err != nil {
		entry.WithError(err).Error("failed to process message")
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case CouponRoutingKey:
		var msg mail.CouponEmail
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			return fmt.Errorf("invalid coupon payload: %w", err)
		}
		if err := w.Mailer.DispatchCoupon(ctx, msg); err != nil {
			return err
		}
		w.log.WithField("lead_id", msg.LeadID).Info("coupon email delivered")
		return nil

	case AssistedRoutingKey:
		var event AssistedSaleEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			return fmt.Errorf("invalid assisted sale payload: %w", err)
		}
		if w.CRM == nil {
			w.log.WithField("lead_id", event.LeadID).Debug("CRM not configured, skipping sync")
			return nil
		}
		return w.CRM.SyncAssistedSale(ctx, event)

	default:
		w.log.WithField("routing_key", d.RoutingKey).Warn("unknown routing key, dropping message")
		return nil
	}
}
