// Package phone normalizes subscriber numbers to the canonical
// <country-code><local-number> form used by the user directory and the
// OTP gateway.
package phone

import (
	"errors"
	"strings"
)

const localDigits = 10

// ErrInvalid indicates the input is not a usable mobile number.
var ErrInvalid = errors.New("invalid mobile number")

// Normalize strips separators and returns the number prefixed with the
// given country code. It accepts either a bare 10-digit local number or
// one that already carries the prefix.
func Normalize(raw, countryCode string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '+' || r == '(' || r == ')':
			// separator noise from copy-pasted numbers
		default:
			return "", ErrInvalid
		}
	}
	digits := b.String()

	switch {
	case len(digits) == localDigits:
		return countryCode + digits, nil
	case len(digits) == localDigits+len(countryCode) && strings.HasPrefix(digits, countryCode):
		return digits, nil
	default:
		return "", ErrInvalid
	}
}

// IsLocal reports whether raw is exactly ten digits with no prefix,
// the form collected by the registration form.
func IsLocal(raw string) bool {
	if len(raw) != localDigits {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
