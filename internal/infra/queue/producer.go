package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-portal/internal/infra/mail"
)

var ErrPublishNacked = errors.New("broker rejected the message")

// AssistedSaleEvent announces a new assisted-sale lead to the CRM sync.
type AssistedSaleEvent struct {
	LeadID   string `json:"lead_id"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email,omitempty"`
	Category string `json:"category"`
	Class    string `json:"class"`
	Batch    string `json:"batch"`
}

type publisher interface {
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// DispatchCoupon queues a coupon email and waits for the broker to confirm
// it has stored the message. The worker performs the actual delivery.
func (p *RabbitMQProducer) DispatchCoupon(ctx context.Context, msg mail.CouponEmail) error {
	return p.publish(ctx, CouponRoutingKey, msg)
}

func (p *RabbitMQProducer) PublishAssistedSale(ctx context.Context, event AssistedSaleEvent) error {
	return p.publish(ctx, AssistedRoutingKey, event)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	confirm, err := p.Ch.PublishWithDeferredConfirmWithContext(ctx,
		ExchangeName,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}

	// nil when the channel is not in confirm mode
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm publish: %w", err)
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}
