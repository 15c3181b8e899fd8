package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/service/auth"
	"github.com/topspin/topspin-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"login failed", auth.ErrLoginFailed, http.StatusUnauthorized},
		{"already active", analysis.ErrAlreadyActive, http.StatusConflict},
		{"already active with metadata", &analysis.AlreadyActiveError{TaskID: "t"}, http.StatusConflict},
		{"coordination unavailable", analysis.ErrCoordinationUnavailable, http.StatusServiceUnavailable},
		{"analysis failed", analysis.ErrAnalysisFailed, http.StatusBadGateway},
		{"empty response", analysis.ErrEmptyResponse, http.StatusBadGateway},
		{"malformed response", analysis.ErrMalformedResponse, http.StatusBadGateway},
		{"invalid result", analysis.ErrInvalidResult, http.StatusBadGateway},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"score not found", store.ErrScoreNotFound, http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown", errors.New("anything else"), http.StatusInternalServerError},
		{"wrapped is still mapped", fmt.Errorf("context: %w", analysis.ErrInvalidResult), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksDetails(t *testing.T) {
	t.Parallel()

	internal := fmt.Errorf("%w: dial tcp 10.0.0.5:6379: connection refused",
		analysis.ErrCoordinationUnavailable)

	msg := GetSafeErrorMessage(internal)
	assert.NotContains(t, msg, "10.0.0.5")
	assert.NotContains(t, msg, "dial tcp")
	assert.NotEmpty(t, msg)

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("raw internal detail")))
}
