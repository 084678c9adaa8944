package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/wordfilter"
)

// Length limits per field category.
const (
	MaxPostLength         = 480
	MaxMessageLength      = 480
	MaxDisplayNameLength  = 60
	MaxReportReasonLength = 120
)

// CheckLength rejects text outside the category's length constraints.
func CheckLength(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return apperror.BadRequest(fmt.Sprintf("%s cannot be empty", field))
	}
	if len(value) > max {
		return apperror.BadRequest(fmt.Sprintf("%s cannot be longer than %d characters", field, max))
	}
	return nil
}

// CheckFiltered rejects text containing blocklisted phrases, naming the
// first matched phrase in the error.
func CheckFiltered(field, value string, filter *wordfilter.Filter) error {
	matches := filter.Scan(value)
	if len(matches) == 0 {
		return nil
	}
	return apperror.BadRequest(fmt.Sprintf("your %s contains the word '%s', which is not allowed", field, matches[0].Word))
}

// FormatValidationError flattens go-playground binding errors into one
// human-readable message.
func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s cannot be longer than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
