package mail

import "time"

// CouponEmail carries everything needed to deliver a coupon code.
type CouponEmail struct {
	LeadID         string `json:"lead_id"`
	To             string `json:"to"`
	Name           string `json:"name"`
	Batch          string `json:"batch"`
	Coupon         string `json:"coupon"`
	AmbassadorName string `json:"ambassador_name"`
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// Timeout bounds a whole delivery, greeting included.
	Timeout time.Duration
}
