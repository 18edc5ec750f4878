package validation

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers typed without a country code.
const DefaultRegion = "BR"

// NormalizePhone parses a user-typed phone number and returns it in E.164.
// Numbers without a leading "+" are read as Brazilian.
func NormalizePhone(phone string) (string, error) {
	clean := strings.TrimSpace(phone)
	if clean == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(clean, DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// ValidatePhone reports whether phone is a valid number.
func ValidatePhone(phone string) bool {
	_, err := NormalizePhone(phone)
	return err == nil
}
