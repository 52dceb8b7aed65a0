package order

import (
	"crypto/subtle"

	"campusmarket/internal/pkg/errs"
)

const (
	// OTPLength is the number of decimal digits in a delivery code.
	OTPLength = 6

	// MaxOTPAttempts is the number of wrong submissions that lock an order.
	MaxOTPAttempts = 3
)

// OTPCode is the 6-digit delivery confirmation code shown to the buyer and
// typed in by the runner at hand-over.
type OTPCode struct {
	value string
}

// ParseOTPCode accepts exactly six ASCII digits.
func ParseOTPCode(s string) (OTPCode, error) {
	if len(s) != OTPLength {
		return OTPCode{}, errs.ErrInvalidOTPFormat
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return OTPCode{}, errs.ErrInvalidOTPFormat
		}
	}
	return OTPCode{value: s}, nil
}

func (c OTPCode) String() string {
	return c.value
}

func (c OTPCode) IsZero() bool {
	return c.value == ""
}

// Matches compares codes in constant time.
func (c OTPCode) Matches(other OTPCode) bool {
	if c.IsZero() || other.IsZero() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(other.value)) == 1
}
