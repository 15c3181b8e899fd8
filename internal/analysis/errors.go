package analysis

import (
	"errors"
	"fmt"
	"time"
)

// Common errors returned by the analysis package. Rejections (a concurrent
// task or lock holder already exists) are deliberately distinct from
// failures so the HTTP layer can map them to different status codes.
var (
	// ErrAlreadyActive is the rejection returned when the user already has
	// an assessment in flight, or the same video is being analyzed by a
	// concurrent request. Not an error condition, a normal concurrency
	// outcome.
	ErrAlreadyActive = errors.New("analysis already in progress")

	// ErrEmptyResponse is returned when the model call produced no output.
	ErrEmptyResponse = errors.New("model returned an empty analysis")

	// ErrMalformedResponse is returned when no parseable JSON payload could
	// be extracted from the model output.
	ErrMalformedResponse = errors.New("no parseable analysis payload in model response")

	// ErrInvalidResult is returned when the parsed payload is missing
	// required fields or carries wrongly-typed values. The wrapping message
	// names every offending field.
	ErrInvalidResult = errors.New("analysis result failed validation")

	// ErrAnalysisFailed is returned when the model call itself failed.
	ErrAnalysisFailed = errors.New("video analysis failed")

	// ErrCoordinationUnavailable is returned when the coordination store
	// cannot be reached while admitting a submission. Admission fails
	// closed: an unreachable store never lets a submission through.
	ErrCoordinationUnavailable = errors.New("coordination store unavailable")
)

// AlreadyActiveError is a rejection carrying the conflicting task's metadata
// when it could be read from the registry.
type AlreadyActiveError struct {
	TaskID    string
	StartedAt time.Time
}

// Error implements the error interface.
func (e *AlreadyActiveError) Error() string {
	if e.TaskID == "" {
		return ErrAlreadyActive.Error()
	}
	return fmt.Sprintf("%s (task %s, started %s)",
		ErrAlreadyActive.Error(), e.TaskID, e.StartedAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is(err, ErrAlreadyActive) match.
func (e *AlreadyActiveError) Unwrap() error {
	return ErrAlreadyActive
}
