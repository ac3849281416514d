package usecase

import (
	"context"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/mail"
	"github.com/xavierca1/lead-portal/internal/infra/queue"
)

// CouponDispatcher delivers a coupon code and reports whether the hand-off
// was acknowledged.
type CouponDispatcher interface {
	DispatchCoupon(ctx context.Context, msg mail.CouponEmail) error
}

// EventPublisher announces new assisted-sale leads to downstream systems.
type EventPublisher interface {
	PublishAssistedSale(ctx context.Context, event queue.AssistedSaleEvent) error
}

type SessionProvider interface {
	SignIn(identifier, secret string) (*entity.Session, string, error)
	SignOut(token string) error
}
