package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleSender simulates coupon delivery by logging it. It is used when no
// SMTP server is configured.
type ConsoleSender struct {
	log logrus.FieldLogger
}

func NewConsoleSender(log logrus.FieldLogger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) DispatchCoupon(ctx context.Context, msg CouponEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"lead_id": msg.LeadID,
		"to":      msg.To,
		"coupon":  msg.Coupon,
	}).Info("[EMAIL SIM] coupon code dispatched")
	return nil
}
