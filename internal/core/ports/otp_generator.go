package ports

import "campusmarket/internal/core/domain/model/order"

// OTPGenerator produces delivery confirmation codes.
type OTPGenerator interface {
	Generate() (order.OTPCode, error)
}
