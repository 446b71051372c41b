// Package validator wires go-playground/validator into Echo.
package validator

import (
	domainErrors "planner/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// EchoValidator adapts a validator.Validate instance to echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates the request validator.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainErrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
