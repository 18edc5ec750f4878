package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyBRL is the only currency quotes are issued in.
const CurrencyBRL = "BRL"

const valueScale = 2

// MaxMonthlyValue is the largest quote a NUMERIC(12,2) column holds.
var MaxMonthlyValue = decimal.RequireFromString("9999999999.99")

var (
	ErrInvalidAmount  = errors.New("amount is not a number")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrAmountTooLarge = fmt.Errorf("%w: above %s", ErrInvalidAmount, MaxMonthlyValue.StringFixed(valueScale))
)

// ParseMonthlyValue parses a user-typed amount. Both "79.00" and the Brazilian
// "1.234,56" forms are accepted, with an optional "R$" prefix. When a comma is
// present it is the decimal separator and dots are thousands separators.
// Exponents and more than two fraction digits are rejected.
func ParseMonthlyValue(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	switch strings.Count(s, ",") {
	case 0:
	case 1:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		return decimal.Zero, ErrInvalidAmount
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if !d.Equal(d.Truncate(valueScale)) {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThan(MaxMonthlyValue) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d.Truncate(valueScale), nil
}

// Cents converts an amount to its integer number of cents.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(valueScale).Round(0).IntPart()
}

// FromCents is the inverse of Cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -valueScale)
}

// FormatBRL renders an amount for display, e.g. "R$79,00".
func FormatBRL(d decimal.Decimal) string {
	return money.New(Cents(d), CurrencyBRL).Display()
}
