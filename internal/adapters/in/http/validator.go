package http

import (
	"fmt"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs validator/v10 into echo's Context.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() (*requestValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("campus", validateCampus); err != nil {
		return nil, fmt.Errorf("validator registration: %w", err)
	}
	if err := v.RegisterValidation("order_status", validateOrderStatus); err != nil {
		return nil, fmt.Errorf("validator registration: %w", err)
	}
	return &requestValidator{validate: v}, nil
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

// validateCampus accepts the wire names of served campuses.
func validateCampus(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := kernel.ParseCampus(s)
	return err == nil
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := order.ParseStatus(s)
	return err == nil
}
