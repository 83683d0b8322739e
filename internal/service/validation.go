package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/citydesk/announce-api/pkg/errors"
)

// NewValidator builds a validator that reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validationError translates a validator failure into a 400 error carrying
// every violated field, never just the first.
func validationError(err error) error {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	fields := make([]appErrors.FieldError, 0, len(violations))
	for _, violation := range violations {
		fields = append(fields, appErrors.FieldError{
			Field:   violation.Field(),
			Message: violationMessage(violation),
		})
	}
	return appErrors.Validation(fields)
}

func violationMessage(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "is required"
	case "min":
		if violation.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", violation.Param())
		}
		return "must not be empty"
	case "gt":
		return fmt.Sprintf("must be greater than %s", violation.Param())
	default:
		return "is invalid"
	}
}
