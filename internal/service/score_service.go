package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/platform/logger"
	"github.com/topspin/topspin-api/internal/store"
)

// ScoreService provides access to persisted assessment results and acts as
// the persistence sink for the analysis orchestrator.
type ScoreService struct {
	scoreStore store.ScoreStore
}

// Compile-time check that ScoreService can serve as the orchestrator's sink.
var _ analysis.Persister = (*ScoreService)(nil)

// NewScoreService creates a ScoreService backed by the given store.
func NewScoreService(scoreStore store.ScoreStore) (*ScoreService, error) {
	if scoreStore == nil {
		return nil, errors.New("score store cannot be nil")
	}
	return &ScoreService{scoreStore: scoreStore}, nil
}

// Save persists one validated assessment result. Implements analysis.Persister.
func (s *ScoreService) Save(
	ctx context.Context,
	userID uuid.UUID,
	videoURL string,
	result *domain.AnalysisResult,
	rawResponse string,
) error {
	score, err := domain.NewScore(userID, videoURL, result, rawResponse)
	if err != nil {
		return fmt.Errorf("failed to construct score: %w", err)
	}

	if err := s.scoreStore.Create(ctx, score); err != nil {
		return fmt.Errorf("failed to persist score: %w", err)
	}

	logger.FromContext(ctx).Info("persisted assessment score",
		"score_id", score.ID,
		"user_id", userID,
		"overall_rating", score.OverallRating)
	return nil
}

// GetScore returns a single score owned by the user.
func (s *ScoreService) GetScore(ctx context.Context, id, userID uuid.UUID) (*domain.Score, error) {
	return s.scoreStore.GetByID(ctx, id, userID)
}

// ListScores returns one page of the user's score history plus the total count.
func (s *ScoreService) ListScores(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ScoreListFilter,
) ([]*domain.Score, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	return s.scoreStore.ListByUser(ctx, userID, filter)
}

// GetStats returns aggregate statistics over the user's recent scores.
func (s *ScoreService) GetStats(ctx context.Context, userID uuid.UUID) (*store.ScoreStats, error) {
	return s.scoreStore.Stats(ctx, userID)
}

// DeleteScore removes a score owned by the user.
func (s *ScoreService) DeleteScore(ctx context.Context, id, userID uuid.UUID) error {
	return s.scoreStore.Delete(ctx, id, userID)
}
