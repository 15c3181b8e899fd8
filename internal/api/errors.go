package api

import (
	"errors"
	"net/http"

	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/service/auth"
	"github.com/topspin/topspin-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrLoginFailed),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// A submission already holds the subject's slot or the video's lock.
	case errors.Is(err, analysis.ErrAlreadyActive):
		return http.StatusConflict

	// The coordination backend could not be reached; the client may retry.
	case errors.Is(err, analysis.ErrCoordinationUnavailable):
		return http.StatusServiceUnavailable

	// The model call failed or produced an unusable answer.
	case errors.Is(err, analysis.ErrAnalysisFailed),
		errors.Is(err, analysis.ErrEmptyResponse),
		errors.Is(err, analysis.ErrMalformedResponse),
		errors.Is(err, analysis.ErrInvalidResult):
		return http.StatusBadGateway

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrScoreNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrOpenIDExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrLoginFailed):
		return "WeChat login failed"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, analysis.ErrAlreadyActive):
		return "An analysis task is already in progress"

	case errors.Is(err, analysis.ErrCoordinationUnavailable):
		return "Service temporarily unavailable, please try again"

	case errors.Is(err, analysis.ErrEmptyResponse),
		errors.Is(err, analysis.ErrMalformedResponse),
		errors.Is(err, analysis.ErrInvalidResult):
		return "Video analysis produced an unusable result"

	case errors.Is(err, analysis.ErrAnalysisFailed):
		return "Video analysis failed"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrScoreNotFound):
		return "Score not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrOpenIDExists),
		errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier format"

	default:
		return "An unexpected error occurred"
	}
}
