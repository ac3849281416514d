package usecase

import (
	"strings"

	"github.com/xavierca1/lead-portal/internal/entity"
)

const minMobileDigits = 10

// normalizeLeadInput trims every field and reduces the mobile number to its
// digits.
func normalizeLeadInput(input LeadInput) LeadInput {
	return LeadInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Mobile:   digitsOnly(input.Mobile),
		Category: strings.TrimSpace(input.Category),
		Class:    strings.TrimSpace(input.Class),
		Batch:    strings.TrimSpace(input.Batch),
	}
}

// ValidateCouponInput returns the first rule the input breaks, or nil.
// Expects normalized input.
func ValidateCouponInput(input LeadInput, rawMobile string) error {
	if input.Name == "" {
		return ValidationError{"name", "is required"}
	}
	if err := validateMobile(rawMobile); err != nil {
		return err
	}
	if !strings.Contains(input.Email, "@") {
		return ValidationError{"email", "a valid email is required"}
	}
	return validateClassification(input)
}

// ValidateAssistedSaleInput applies the coupon rules except that email is
// optional.
func ValidateAssistedSaleInput(input LeadInput, rawMobile string) error {
	if input.Name == "" {
		return ValidationError{"name", "is required"}
	}
	if err := validateMobile(rawMobile); err != nil {
		return err
	}
	if input.Email != "" && !strings.Contains(input.Email, "@") {
		return ValidationError{"email", "must be a valid email"}
	}
	return validateClassification(input)
}

func validateClassification(input LeadInput) error {
	if input.Batch == "" {
		return ValidationError{"batch", "specific batch name is required"}
	}
	if !entity.IsExamCategory(input.Category) {
		return ValidationError{"category", "must be one of the listed exam categories"}
	}
	if !entity.IsClass(input.Class) {
		return ValidationError{"class", "must be one of the listed classes"}
	}
	return nil
}

// validateMobile accepts digits with the usual separators and an optional
// leading '+'; anything else is rejected rather than silently dropped.
func validateMobile(raw string) error {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "+")
	if raw == "" {
		return ValidationError{"mobile", "a valid WhatsApp number is required"}
	}

	digits := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return ValidationError{"mobile", "a valid WhatsApp number is required"}
		}
	}
	if digits < minMobileDigits {
		return ValidationError{"mobile", "must have at least 10 digits"}
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
