package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("goal", "Walk daily", 10))
	assert.EqualError(t, Required("goal", "   ", 10), "goal is required")
	assert.EqualError(t, Required("goal", "Walk daily for an hour", 10), "goal is too long (max 10 characters)")
}

func TestOneOf(t *testing.T) {
	allowed := []string{"active", "pending"}

	assert.NoError(t, OneOf("status", "active", allowed))
	assert.EqualError(t, OneOf("status", "done", allowed), "status must be one of active, pending")
	assert.Error(t, OneOf("status", "", allowed))
	assert.NoError(t, OptionalOneOf("status", "", allowed))
}

func TestNumbers(t *testing.T) {
	assert.Error(t, Positive("amount", 0))
	assert.NoError(t, Positive("amount", 1))
	assert.Error(t, NonNegative("reward", -1))
	assert.NoError(t, NonNegative("reward", 0))
	assert.NoError(t, Percent("progress", 100))
	assert.Error(t, Percent("progress", 100.5))
	assert.Error(t, Percent("progress", -1))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, OptionalEmail("providerEmail", ""))
	assert.NoError(t, OptionalEmail("providerEmail", "chen@example.com"))
	assert.Error(t, OptionalEmail("providerEmail", "not-an-email"))
	assert.Error(t, ValidateEmail("email", ""))
}

func TestFirst(t *testing.T) {
	first := Field("a", "bad")
	err := First(nil, first, Field("b", "bad"))

	var fieldErr *Error
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "a", fieldErr.Field)
	assert.NoError(t, First(nil, nil))
}
