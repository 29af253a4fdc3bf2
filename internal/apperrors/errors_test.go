package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped not found", fmt.Errorf("matter MTR-1: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: hours must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{"format", apperrors.ErrFormat, http.StatusBadRequest},
		{"transition", apperrors.ErrInvalidTransition, http.StatusConflict},
		{"extraction", fmt.Errorf("%w: timeout", apperrors.ErrExtraction), http.StatusBadGateway},
		{"explicit status", apperrors.NewAppError(http.StatusTeapot, "brew %s", "tea"), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.HTTPStatus(tt.err))
		})
	}
}
