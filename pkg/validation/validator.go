// Package validation checks configuration values, both through struct tags
// and through a fluent validator for rules that span several fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report yaml keys instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct checks the `validate` tags of v and returns every failure
// joined under ErrInvalidConfig.
func ValidateStruct(v any) error {
	if v == nil {
		return fmt.Errorf("%w: value cannot be nil", ErrInvalidConfig)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), rootName(e))
		param := e.Param()

		switch e.Tag() {
		case "required":
			out = append(out, fmt.Errorf("%s: field is required", field))
		case "min", "gte":
			out = append(out, fmt.Errorf("%s: must be at least %s", field, param))
		case "max", "lte":
			out = append(out, fmt.Errorf("%s: must not exceed %s", field, param))
		case "gt":
			out = append(out, fmt.Errorf("%s: must be greater than %s", field, param))
		case "oneof":
			out = append(out, fmt.Errorf("%s: value %v must be one of [%s]", field, e.Value(), param))
		default:
			out = append(out, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(out...)
}

// rootName returns the "Type." prefix of a namespace such as "Config.rwr.restart".
func rootName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[:i+1]
	}
	return ""
}
