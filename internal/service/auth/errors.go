package auth

import "errors"

// Common errors returned by the auth package.
var (
	// ErrInvalidToken is returned when a token fails signature or claims
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is syntactically valid but
	// past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrWrongTokenType is returned when an access token is presented where
	// a refresh token is expected, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrLoginFailed is returned when the WeChat code exchange is rejected.
	ErrLoginFailed = errors.New("wechat login failed")
)
