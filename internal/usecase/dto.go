package usecase

import "github.com/xavierca1/lead-portal/internal/entity"

type LeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Category string `json:"category"`
	Class    string `json:"class"`
	Batch    string `json:"batch"`
}

type RequestCouponOutput struct {
	LeadID string `json:"lead_id"`
	SentTo string `json:"sent_to"`
}

type RequestAssistedSaleOutput struct {
	LeadID   string `json:"lead_id"`
	ChatLink string `json:"chat_link"`
}

type LoginInput struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type LoginOutput struct {
	Token   string          `json:"token"`
	Session *entity.Session `json:"session"`
}

type UpdateStatusInput struct {
	Status entity.Status `json:"status"`
}

// PublicSettings is what anonymous callers may see. The active coupon is
// only handed out through the coupon intake.
type PublicSettings struct {
	WhatsAppNumber string `json:"whatsapp_number"`
	AmbassadorName string `json:"ambassador_name"`
}
