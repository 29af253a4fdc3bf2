package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrFormat indicates that manually supplied structured input could not be parsed.
var ErrFormat = errors.New("input is not valid JSON")

// ErrExtraction indicates that the intake classifier failed or returned unusable output.
var ErrExtraction = errors.New("extraction failed")

// ErrCorruptCollection indicates a persisted collection that could not be decoded or validated.
var ErrCorruptCollection = errors.New("persisted collection is corrupt")

// ErrInvalidTransition indicates a state change that the entity's lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrUnauthorized indicates a missing or rejected session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError pairs an error with the HTTP status it should be reported as.
type AppError struct {
	Status int
	Err    error
}

func (e *AppError) Error() string {
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with an explicit status.
func NewAppError(status int, format string, args ...any) *AppError {
	return &AppError{Status: status, Err: fmt.Errorf(format, args...)}
}

// HTTPStatus maps an error chain to a response status.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Status
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
