package http

import (
	"net/http"

	"campusmarket/internal/pkg/errs"
)

// ErrorResponse is the body of every failed request. Localized messages are
// rendered by the client from Code.
type ErrorResponse struct {
	Code errs.Code `json:"code"`
}

func statusOf(code errs.Code) int {
	switch code {
	case errs.CodeOrderNotFound, errs.CodeProductNotFound, errs.CodeShopNotFound:
		return http.StatusNotFound
	case errs.CodeInvalidRequest, errs.CodeEmptyCart, errs.CodeInvalidOTPFormat:
		return http.StatusBadRequest
	case errs.CodeUnauthorized:
		return http.StatusUnauthorized
	case errs.CodeUnauthorizedAction:
		return http.StatusForbidden
	case errs.CodeInsufficientStock, errs.CodeInvalidTransition, errs.CodeCannotCancel, errs.CodeOrderNotArrived:
		return http.StatusConflict
	case errs.CodeInvalidOTP:
		return http.StatusUnprocessableEntity
	case errs.CodeOrderLocked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
