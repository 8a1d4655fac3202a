// Package validation wraps go-playground/validator with the messages shown
// to users by both the services and the console.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Struct validates s. Field failures come back as one *domain.ValidationError
// carrying code, or "invalid_<field>" of the first failure when code is
// empty. Other validator errors are returned unchanged.
func Struct(v *validator.Validate, s any, code string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	if code == "" {
		code = "invalid_" + strings.ToLower(ve[0].Field())
	}
	return &domain.ValidationError{Code: code, Message: Message(ve)}
}

// Message joins the per-field messages of ve.
func Message(ve validator.ValidationErrors) string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, FieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func FieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
