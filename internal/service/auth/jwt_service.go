package auth

import (
	"context"

	"github.com/google/uuid"
)

// Token types embedded in JWT claims.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the validated contents of a token: the user's internal ID plus
// the WeChat openid the account was created from.
type Claims struct {
	UserID    uuid.UUID
	OpenID    string
	TokenType string
}

// JWTService issues and validates the access/refresh token pair handed to
// the mini-program client after login.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID, openID string) (string, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID, openID string) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// ValidateRefreshToken verifies a refresh token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}
