// Package apperr classifies service errors into stable wire codes.
package apperr

import (
	"errors"
	"net/http"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/validation"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodePatientNotFound    Code = "PATIENT_NOT_FOUND"
	CodePledgeNotFound     Code = "PLEDGE_NOT_FOUND"
	CodeGoalNotFound       Code = "GOAL_NOT_FOUND"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeInvalidTransition  Code = "INVALID_TRANSITION"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodePatientNotFound, CodePledgeNotFound, CodeGoalNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidTransition:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is what a caller sees. Message is safe to return as-is.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// From classifies err. Unrecognized errors become INTERNAL with a generic
// message; the caller is expected to log the original.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var fieldErr *validation.Error
	switch {
	case errors.As(err, &fieldErr):
		return New(CodeValidation, fieldErr.Error())
	case errors.Is(err, service.ErrInvalidDuration):
		return New(CodeValidation, err.Error())
	case errors.Is(err, repository.ErrPatientNotFound):
		return New(CodePatientNotFound, "Patient not found")
	case errors.Is(err, repository.ErrPledgeNotFound):
		return New(CodePledgeNotFound, "Pledge not found")
	case errors.Is(err, repository.ErrGoalNotFound):
		return New(CodeGoalNotFound, "Goal not found")
	case errors.Is(err, model.ErrInvalidPledgeTransition), errors.Is(err, model.ErrInvalidGoalTransition):
		return New(CodeInvalidTransition, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return New(CodeStorageUnavailable, "Snapshot storage is not configured")
	default:
		return New(CodeInternal, "Internal server error")
	}
}
