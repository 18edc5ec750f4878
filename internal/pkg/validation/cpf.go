// Package validation holds the Brazilian document and phone checks shared by
// the HTTP validator and the identity service.
package validation

import (
	"errors"
	"regexp"
)

var ErrInvalidCPF = errors.New("invalid CPF")

var nonDigit = regexp.MustCompile(`\D`)

// ValidateCPF reports whether cpf has 11 digits with valid check digits.
// Punctuation is ignored.
func ValidateCPF(cpf string) bool {
	digits := nonDigit.ReplaceAllString(cpf, "")
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits[:9], 10) == digits[9] && checkDigit(digits[:10], 11) == digits[10]
}

// checkDigit computes the modulo-11 verifier for prefix, weighting the first
// digit with weight and decreasing by one.
func checkDigit(prefix string, weight int) byte {
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}

// NormalizeCPF validates cpf and returns it in the 000.000.000-00 mask.
func NormalizeCPF(cpf string) (string, error) {
	if !ValidateCPF(cpf) {
		return "", ErrInvalidCPF
	}
	d := nonDigit.ReplaceAllString(cpf, "")
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11], nil
}
