package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topspin/topspin-api/internal/config"
	"github.com/topspin/topspin-api/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	service, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-32-chars!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)
	return service
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	userID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), userID, "openid-1")
	require.NoError(t, err)

	var gotUserID uuid.UUID
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, found = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(jwtService).Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, userID, gotUserID)
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), uuid.New(), "openid-1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed token", "Bearer not-a-jwt"},
		{"refresh token on access route", "Bearer " + refreshToken},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for unauthenticated requests")
	})
	handler := NewAuthMiddleware(jwtService).Authenticate(next)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
