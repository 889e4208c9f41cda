package handlers

import (
	"regexp"

	"github.com/go-playground/validator"

	apperrors "github.com/technoghar/repair-service/pkg/util"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{10,15}$`)

// newValidator builds the shared payload validator with the phone rule.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct maps validator failures into a VALIDATION_FAILED domain
// error before any store call is made.
func validateStruct(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range fieldErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	return apperrors.NewValidationError("invalid payload", details)
}
