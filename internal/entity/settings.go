package entity

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Settings is the single global configuration record.
type Settings struct {
	ActiveCoupon   string `json:"active_coupon"`
	WhatsAppNumber string `json:"whatsapp_number"`
	AmbassadorName string `json:"ambassador_name"`
}

func DefaultSettings() Settings {
	return Settings{
		ActiveCoupon:   "YUGNA00001",
		WhatsAppNumber: "919000000000",
		AmbassadorName: "Yugal (Official Ambassador)",
	}
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Normalize trims every field and upper-cases the coupon code.
func (s Settings) Normalize() Settings {
	return Settings{
		ActiveCoupon:   strings.ToUpper(strings.TrimSpace(s.ActiveCoupon)),
		WhatsAppNumber: strings.TrimPrefix(strings.TrimSpace(s.WhatsAppNumber), "+"),
		AmbassadorName: strings.TrimSpace(s.AmbassadorName),
	}
}

func (s Settings) Validate() error {
	if s.ActiveCoupon == "" {
		return errors.New("active coupon is required")
	}
	if !digitsOnly.MatchString(s.WhatsAppNumber) {
		return errors.New("whatsapp number must contain digits only, including country code")
	}
	if s.AmbassadorName == "" {
		return errors.New("ambassador name is required")
	}
	return nil
}

// SettingsRepository stores the one live Settings record. Get returns a
// copy; Set replaces the whole record.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Set(ctx context.Context, s Settings) error
}
