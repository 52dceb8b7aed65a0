// Package otp generates delivery confirmation codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"campusmarket/internal/core/domain/model/order"
)

var upperBound = big.NewInt(1_000_000)

// Generator draws codes uniformly from 000000-999999 using a
// cryptographically secure source.
type Generator struct {
	source io.Reader
}

func NewGenerator() Generator {
	return Generator{source: rand.Reader}
}

func (g Generator) Generate() (order.OTPCode, error) {
	n, err := rand.Int(g.source, upperBound)
	if err != nil {
		return order.OTPCode{}, fmt.Errorf("generate otp: %w", err)
	}
	return order.ParseOTPCode(fmt.Sprintf("%0*d", order.OTPLength, n.Int64()))
}
