package errs

import (
	"errors"
	"fmt"
)

// Code is a short machine-readable failure identifier returned to callers.
// Localized messages are the presentation layer's concern.
type Code string

const (
	CodeOrderNotFound      Code = "ORDER_NOT_FOUND"
	CodeEmptyCart          Code = "EMPTY_CART"
	CodeProductNotFound    Code = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodeShopNotFound       Code = "SHOP_NOT_FOUND"
	CodeInvalidTransition  Code = "INVALID_TRANSITION"
	CodeUnauthorizedAction Code = "UNAUTHORIZED_ACTION"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeOrderNotArrived    Code = "ORDER_NOT_ARRIVED"
	CodeOrderLocked        Code = "ORDER_LOCKED"
	CodeInvalidOTP         Code = "INVALID_OTP"
	CodeInvalidOTPFormat   Code = "INVALID_OTP_FORMAT"
	CodeCannotCancel       Code = "CANNOT_CANCEL"
	CodeInvalidRequest     Code = "INVALID_REQUEST"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. BusinessError.Is compares codes only, so a
// detailed error created with NewBusinessError matches the sentinel of its code.
var (
	ErrOrderNotFound      = &BusinessError{Code: CodeOrderNotFound, Message: "order not found"}
	ErrEmptyCart          = &BusinessError{Code: CodeEmptyCart, Message: "cart is empty"}
	ErrProductNotFound    = &BusinessError{Code: CodeProductNotFound, Message: "product not found"}
	ErrInsufficientStock  = &BusinessError{Code: CodeInsufficientStock, Message: "insufficient stock"}
	ErrShopNotFound       = &BusinessError{Code: CodeShopNotFound, Message: "shop not found"}
	ErrInvalidTransition  = &BusinessError{Code: CodeInvalidTransition, Message: "invalid transition"}
	ErrUnauthorizedAction = &BusinessError{Code: CodeUnauthorizedAction, Message: "action not permitted"}
	ErrUnauthorized       = &BusinessError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrOrderNotArrived    = &BusinessError{Code: CodeOrderNotArrived, Message: "order has not arrived"}
	ErrOrderLocked        = &BusinessError{Code: CodeOrderLocked, Message: "order is locked"}
	ErrInvalidOTP         = &BusinessError{Code: CodeInvalidOTP, Message: "invalid otp"}
	ErrInvalidOTPFormat   = &BusinessError{Code: CodeInvalidOTPFormat, Message: "otp must be 6 digits"}
	ErrCannotCancel       = &BusinessError{Code: CodeCannotCancel, Message: "order cannot be cancelled"}
	ErrInvalidRequest     = &BusinessError{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrInternal           = &BusinessError{Code: CodeInternal, Message: "internal error"}
)

// BusinessError is a rule violation carrying one of the canonical codes.
type BusinessError struct {
	Code    Code
	Message string
	Cause   error
}

func NewBusinessError(code Code, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}

func NewBusinessErrorWithCause(code Code, message string, cause error) *BusinessError {
	return &BusinessError{Code: code, Message: message, Cause: cause}
}

func (e *BusinessError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	return withCause(msg, e.Cause)
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func (e *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	return ok && t.Code == e.Code
}

// CodeOf resolves any error to a canonical code. Validation errors of the
// kernel types become INVALID_REQUEST; anything unrecognised is INTERNAL_ERROR.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}

	var nf *ObjectNotFoundError
	if errors.As(err, &nf) {
		switch nf.ParamName {
		case "product":
			return CodeProductNotFound
		case "shop":
			return CodeShopNotFound
		default:
			return CodeOrderNotFound
		}
	}

	switch {
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}
