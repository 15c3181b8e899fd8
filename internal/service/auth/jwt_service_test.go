package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topspin/topspin-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-key-that-is-32-chars!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTServiceRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := service.GenerateToken(ctx, userID, "openid-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "openid-123", claims.OpenID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTServiceRefreshRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := service.GenerateRefreshToken(ctx, userID, "openid-123")
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestJWTServiceWrongTokenType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	accessToken, err := service.GenerateToken(ctx, uuid.New(), "openid-123")
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken(ctx, uuid.New(), "openid-123")
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = service.ValidateToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTServiceExpiredToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	impl, ok := service.(*hmacJWTService)
	require.True(t, ok)

	issued := time.Now()
	impl.timeFunc = func() time.Time { return issued }

	token, err := service.GenerateToken(ctx, uuid.New(), "openid-123")
	require.NoError(t, err)

	// Just inside the lifetime plus clock skew: still valid.
	impl.timeFunc = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = service.ValidateToken(ctx, token)
	assert.NoError(t, err)

	// Well past expiry.
	impl.timeFunc = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTServiceRejectsTamperedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	token, err := service.GenerateToken(ctx, uuid.New(), "openid-123")
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-key-that-is-32-ch!"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	foreign, err := otherService.GenerateToken(ctx, uuid.New(), "openid-123")
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
