package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
)

// ScoreListFilter narrows and pages a user's score history. Zero values mean
// "no constraint" for the rating/date bounds and library defaults for paging.
type ScoreListFilter struct {
	Page      int
	Limit     int
	MinRating float64
	MaxRating float64
	StartDate time.Time
	EndDate   time.Time
}

// ScoreStats summarizes a user's assessment history. RecentTrend holds the
// overall ratings of the five most recent assessments in chronological order.
type ScoreStats struct {
	TotalScores   int       `json:"total_scores"`
	AverageRating float64   `json:"average_rating"`
	HighestRating float64   `json:"highest_rating"`
	LowestRating  float64   `json:"lowest_rating"`
	LatestRating  float64   `json:"latest_rating"`
	RecentTrend   []float64 `json:"recent_trend"`
}

// ScoreStore defines the interface for persisted assessment records.
type ScoreStore interface {
	// Create saves a new score record.
	// Returns validation errors from the domain Score if data is invalid.
	Create(ctx context.Context, score *domain.Score) error

	// GetByID retrieves a score owned by userID.
	// Returns ErrScoreNotFound if no such score exists for that user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Score, error)

	// ListByUser returns a page of the user's scores, newest first, along
	// with the total number of records matching the filter.
	ListByUser(ctx context.Context, userID uuid.UUID, filter ScoreListFilter) ([]*domain.Score, int, error)

	// Stats aggregates the user's score history.
	Stats(ctx context.Context, userID uuid.UUID) (*ScoreStats, error)

	// Delete removes a score owned by userID.
	// Returns ErrScoreNotFound if no such score exists for that user.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
