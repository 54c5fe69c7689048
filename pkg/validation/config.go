package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config section name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: "+format, append([]any{cv.name, field}, args...)...))
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, "required field is empty")
	}
	return cv
}

// MinInt validates that an int field is at least the minimum value.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.fail(field, "value %d is below minimum %d", value, min)
	}
	return cv
}

// Positive validates that an int field is positive (> 0).
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.fail(field, "value %d must be positive", value)
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.fail(field, "value %d must be non-negative", value)
	}
	return cv
}

// PositiveFloat validates that a float field is positive (> 0) and finite.
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if !(value > 0) || math.IsInf(value, 1) {
		cv.fail(field, "value %g must be positive", value)
	}
	return cv
}

// NonNegativeFloat validates that a float field is non-negative (>= 0) and finite.
func (cv *ConfigValidator) NonNegativeFloat(field string, value float64) *ConfigValidator {
	if !(value >= 0) || math.IsInf(value, 1) {
		cv.fail(field, "value %g must be non-negative", value)
	}
	return cv
}

// RangeFloat validates that a float field lies in the closed range [min, max].
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if !(value >= min && value <= max) {
		cv.fail(field, "value %g is outside range [%g, %g]", value, min, max)
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.fail(field, "value %q must be one of %v", value, allowed)
	return cv
}

// AnyOf validates that at least one of several alternative fields is set.
func (cv *ConfigValidator) AnyOf(field string, set ...bool) *ConfigValidator {
	for _, ok := range set {
		if ok {
			return cv
		}
	}
	cv.fail(field, "one of the alternatives must be set")
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns every collected error joined under ErrInvalidConfig, or nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, cv.name, errors.Join(cv.errors...))
}
