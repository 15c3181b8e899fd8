package analysis

import (
	"context"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
)

// Analyzer defines the interface for the external video-assessment call.
// This interface serves as a boundary between the application core and the
// AI/LLM service, so the orchestrator can be tested against a stub and the
// backing model can be swapped without touching the state machine.
type Analyzer interface {
	// Analyze submits the video at videoURL together with the scoring
	// prompt and returns the model's raw text response. The call is
	// synchronous and may take tens of seconds to minutes; implementations
	// must honor ctx cancellation. The orchestrator issues no retries.
	Analyze(ctx context.Context, videoURL, prompt string) (string, error)
}

// Persister is the best-effort persistence collaborator. A Save failure is
// logged by the orchestrator but never fails the overall operation; the
// caller still receives the computed result.
type Persister interface {
	Save(ctx context.Context, userID uuid.UUID, videoURL string, result *domain.AnalysisResult, rawResponse string) error
}
