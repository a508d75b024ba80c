package validation

import (
	"fmt"
	"slices"
	"strings"
)

// Error reports one invalid input field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + " " + e.Message
}

func Field(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// First returns the first non-nil error, so handlers can list checks in
// order and report the earliest failure.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Required validates a trimmed, non-empty string of at most max characters.
func Required(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return Field(field, "is required")
	}

	if len(trimmed) > max {
		return Field(field, fmt.Sprintf("is too long (max %d characters)", max))
	}

	return nil
}

// MaxLength validates an optional string.
func MaxLength(field, value string, max int) error {
	if len(value) > max {
		return Field(field, fmt.Sprintf("is too long (max %d characters)", max))
	}
	return nil
}

// OneOf validates an enum value. Empty is rejected.
func OneOf(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return Field(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	}
	return nil
}

// OptionalOneOf validates an enum value that may be omitted.
func OptionalOneOf(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	return OneOf(field, value, allowed)
}

func Positive(field string, value int) error {
	if value <= 0 {
		return Field(field, "must be greater than 0")
	}
	return nil
}

func NonNegative(field string, value int) error {
	if value < 0 {
		return Field(field, "must not be negative")
	}
	return nil
}

// Percent validates a 0..100 value.
func Percent(field string, value float64) error {
	if value < 0 || value > 100 {
		return Field(field, "must be between 0 and 100")
	}
	return nil
}
