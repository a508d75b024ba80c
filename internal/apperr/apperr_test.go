package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/validation"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   Code
		status int
	}{
		{"patient", fmt.Errorf("%w: #1", repository.ErrPatientNotFound), CodePatientNotFound, http.StatusNotFound},
		{"pledge", repository.ErrPledgeNotFound, CodePledgeNotFound, http.StatusNotFound},
		{"goal", repository.ErrGoalNotFound, CodeGoalNotFound, http.StatusNotFound},
		{"duration", service.ErrInvalidDuration, CodeValidation, http.StatusBadRequest},
		{"field", validation.Field("amount", "must be positive"), CodeValidation, http.StatusBadRequest},
		{"transition", fmt.Errorf("%w: replaced -> active", model.ErrInvalidPledgeTransition), CodeInvalidTransition, http.StatusConflict},
		{"goal transition", fmt.Errorf("%w: completed -> active", model.ErrInvalidGoalTransition), CodeInvalidTransition, http.StatusConflict},
		{"storage", service.ErrStorageUnavailable, CodeStorageUnavailable, http.StatusServiceUnavailable},
		{"passthrough", New(CodeRateLimited, "slow down"), CodeRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.Code.HTTPStatus())
		})
	}
}

func TestFrom_InternalHidesDetail(t *testing.T) {
	got := From(errors.New("pq: password authentication failed for user admin"))
	assert.Equal(t, "Internal server error", got.Message)
}
