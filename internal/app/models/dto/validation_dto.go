package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding error into an error detail. Field errors
// from the validator become one entry each; anything else (malformed JSON, wrong
// types) is reported as an invalid request body.
func HandleValidationError(err error) *ErrorDetail {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	v := NewValidationErrors()
	for _, fe := range fieldErrors {
		v.AddError(jsonFieldName(fe), formatValidationError(fe))
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(v.Errors)
	if len(v.Errors) == 1 {
		detail = detail.WithField(v.Errors[0].Field)
	}
	return detail
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "username":
		return field + " may contain only letters, digits, '_' and '-' (3-30 characters)"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
