package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/coordination"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/metrics"
	"github.com/topspin/topspin-api/internal/platform/logger"
)

// videoLockKeyPrefix namespaces per-video leases in the coordination store.
const videoLockKeyPrefix = "video_analysis:"

// Submission outcome labels reported to metrics.
const (
	outcomeSucceeded   = "succeeded"
	outcomeRejected    = "rejected"
	outcomeFailed      = "failed"
	outcomeUnavailable = "coordination_unavailable"
)

// ServiceConfig bounds the coordination state created per submission.
type ServiceConfig struct {
	// LockTTL is the safety ceiling on the per-video lease, sized to the
	// worst-case duration of the model call.
	LockTTL time.Duration

	// TaskTTL is the safety ceiling on the per-user task record.
	TaskTTL time.Duration
}

// DefaultServiceConfig returns the TTLs used when none are configured.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		LockTTL: 30 * time.Minute,
		TaskTTL: 30 * time.Minute,
	}
}

// Service runs the assessment state machine. All cross-instance coordination
// goes through the lock manager and task registry; the service itself keeps
// no mutable state, so one instance serves arbitrarily many concurrent
// submissions.
type Service struct {
	locks     *coordination.LockManager
	registry  *coordination.TaskRegistry
	analyzer  Analyzer
	persister Persister
	metrics   *metrics.Metrics
	config    ServiceConfig
}

// NewService creates the orchestrator. persister and recorder may be nil;
// persistence is then skipped and metrics become no-ops.
func NewService(
	locks *coordination.LockManager,
	registry *coordination.TaskRegistry,
	analyzer Analyzer,
	persister Persister,
	recorder *metrics.Metrics,
	cfg ServiceConfig,
) (*Service, error) {
	if locks == nil {
		return nil, errors.New("lock manager cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("task registry cannot be nil")
	}
	if analyzer == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if cfg.LockTTL <= 0 || cfg.TaskTTL <= 0 {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		locks:     locks,
		registry:  registry,
		analyzer:  analyzer,
		persister: persister,
		metrics:   recorder,
		config:    cfg,
	}, nil
}

// SubmitAnalysis runs one video assessment for the given user. A nil userID
// submits anonymously: the per-user single-task constraint is skipped and
// nothing is persisted, but the per-video lock still applies.
//
// The call is synchronous; the model call in the middle is the single long
// suspension point. On return - success, rejection or failure - the lease
// and the task record are guaranteed to be gone, so the only way either can
// outlive a submission is a process crash, bounded by the configured TTLs.
func (s *Service) SubmitAnalysis(
	ctx context.Context,
	userID uuid.UUID,
	videoURL string,
) (result *domain.AnalysisResult, err error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	if videoURL == "" {
		return nil, fmt.Errorf("%w: video URL cannot be empty", domain.ErrEmptyContent)
	}

	// The task UUID doubles as the lease owner token: unique per attempt,
	// which is all ownership-checked release needs.
	taskID := uuid.New().String()
	lockKey := videoLockKeyPrefix + videoURL
	subjectID := userID.String()

	started := false
	acquired := false

	// Teardown runs on every exit path, including panics raised between the
	// model call and persistence. Release before clear, and both regardless
	// of the other's outcome; each helper is fail-soft internally.
	//
	// The request context is often already canceled here - a client that
	// disconnects during the model call cancels it - so teardown gets a
	// detached context: the lease and task record must not survive the
	// submission just because the caller went away.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if acquired {
			s.locks.Release(cleanupCtx, lockKey, taskID)
		}
		if started {
			s.registry.Complete(cleanupCtx, subjectID)
		}
		s.metrics.ObserveSubmission(outcomeLabel(err), time.Since(start))
	}()

	// Admission: at most one in-flight task per user.
	if userID != uuid.Nil {
		active, aerr := s.registry.HasActive(ctx, subjectID)
		if aerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCoordinationUnavailable, aerr)
		}
		if active {
			return nil, s.rejectWithTaskMetadata(ctx, subjectID)
		}

		ok, serr := s.registry.Start(ctx, subjectID, taskID, s.config.TaskTTL)
		if serr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCoordinationUnavailable, serr)
		}
		if !ok {
			// Another request won the registry between the check and the
			// create; same outcome as an active task.
			return nil, s.rejectWithTaskMetadata(ctx, subjectID)
		}
		started = true
	}

	// Per-video lease: first to create it analyzes, everyone else is
	// rejected immediately.
	ok, lerr := s.locks.Acquire(ctx, lockKey, taskID, s.config.LockTTL)
	if lerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoordinationUnavailable, lerr)
	}
	if !ok {
		log.Info("video already being analyzed by a concurrent request",
			"video_url", videoURL)
		return nil, &AlreadyActiveError{}
	}
	acquired = true

	log.Info("starting video analysis",
		"task_id", taskID,
		"user_id", subjectID,
		"video_url", videoURL)

	raw, aerr := s.analyzer.Analyze(ctx, videoURL, scoringPrompt)
	if aerr != nil {
		log.Error("model call failed",
			"task_id", taskID,
			"error", aerr)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, aerr)
	}
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	result, perr := parseResult(raw)
	if perr != nil {
		log.Error("model response rejected",
			"task_id", taskID,
			"response_length", len(raw),
			"error", perr)
		return nil, perr
	}

	log.Info("video analysis completed",
		"task_id", taskID,
		"overall_rating", result.OverallRating)

	// Best effort: a persistence failure is logged but the caller still
	// receives the computed result.
	if s.persister != nil && userID != uuid.Nil {
		if serr := s.persister.Save(ctx, userID, videoURL, result, raw); serr != nil {
			log.Error("failed to persist analysis result",
				"task_id", taskID,
				"user_id", subjectID,
				"error", serr)
		}
	}

	return result, nil
}

// TaskStatus returns the user's in-flight task record, or nil when no task
// is active. Exposed so clients can poll while an assessment runs.
func (s *Service) TaskStatus(ctx context.Context, userID uuid.UUID) (*coordination.TaskRecord, error) {
	return s.registry.Get(ctx, userID.String())
}

// rejectWithTaskMetadata builds the AlreadyActive rejection, attaching the
// conflicting task's metadata when the registry can still supply it.
func (s *Service) rejectWithTaskMetadata(ctx context.Context, subjectID string) error {
	rejection := &AlreadyActiveError{}
	if record, err := s.registry.Get(ctx, subjectID); err == nil && record != nil {
		rejection.TaskID = record.TaskID
		rejection.StartedAt = record.StartedAt
	}
	return rejection
}

// outcomeLabel maps a submission error to its metrics label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return outcomeSucceeded
	case errors.Is(err, ErrAlreadyActive):
		return outcomeRejected
	case errors.Is(err, ErrCoordinationUnavailable):
		return outcomeUnavailable
	default:
		return outcomeFailed
	}
}
