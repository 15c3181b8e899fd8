package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/platform/logger"
	"github.com/topspin/topspin-api/internal/store"
)

// defaultPageLimit is applied when a list filter does not specify one.
const defaultPageLimit = 10

// statsSampleSize caps how many recent scores feed the stats aggregate.
const statsSampleSize = 100

// PostgresScoreStore implements the store.ScoreStore interface using PostgreSQL.
type PostgresScoreStore struct {
	db store.DBTX
}

// Compile-time check that PostgresScoreStore satisfies store.ScoreStore.
var _ store.ScoreStore = (*PostgresScoreStore)(nil)

// NewPostgresScoreStore creates a new PostgresScoreStore.
func NewPostgresScoreStore(db store.DBTX) *PostgresScoreStore {
	return &PostgresScoreStore{db: db}
}

const scoreColumns = `id, user_id, video_url, overall_rating,
	serve_score, serve_reason, forehand_score, forehand_reason,
	backhand_score, backhand_reason, movement_score, movement_reason,
	net_play_score, net_play_reason, improvements, raw_response,
	created_at, updated_at`

// Create saves a new score record.
func (s *PostgresScoreStore) Create(ctx context.Context, score *domain.Score) error {
	log := logger.FromContext(ctx)

	if err := score.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	improvements, err := json.Marshal(score.Improvements)
	if err != nil {
		return fmt.Errorf("failed to marshal improvements: %w", err)
	}

	query := `
		INSERT INTO scores (` + scoreColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = s.db.ExecContext(ctx, query,
		score.ID,
		score.UserID,
		score.VideoURL,
		score.OverallRating,
		score.ServeScore,
		score.ServeReason,
		score.ForehandScore,
		score.ForehandReason,
		score.BackhandScore,
		score.BackhandReason,
		score.MovementScore,
		score.MovementReason,
		score.NetPlayScore,
		score.NetPlayReason,
		improvements,
		score.RawResponse,
		score.CreatedAt,
		score.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create score",
			"score_id", score.ID,
			"user_id", score.UserID,
			"error", err)
		return fmt.Errorf("failed to create score: %w", MapError(err))
	}

	return nil
}

// GetByID retrieves a score owned by userID.
func (s *PostgresScoreStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores
		WHERE id = $1 AND user_id = $2
	`

	score, err := scanScore(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScoreNotFound
		}
		logger.FromContext(ctx).Error("failed to get score",
			"score_id", id,
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to get score: %w", MapError(err))
	}

	return score, nil
}

// ListByUser returns a page of the user's scores, newest first, along with
// the total count matching the filter.
func (s *PostgresScoreStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ScoreListFilter,
) ([]*domain.Score, int, error) {
	log := logger.FromContext(ctx)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	where := "WHERE user_id = $1"
	args := []any{userID}

	addCond := func(cond string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if filter.MinRating > 0 {
		addCond("overall_rating >=", filter.MinRating)
	}
	if filter.MaxRating > 0 {
		addCond("overall_rating <=", filter.MaxRating)
	}
	if !filter.StartDate.IsZero() {
		addCond("created_at >=", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		addCond("created_at <=", filter.EndDate)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM scores " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count scores", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to count scores: %w", MapError(err))
	}

	args = append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf(
		"SELECT "+scoreColumns+" FROM scores %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to list scores", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to list scores: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var scores []*domain.Score
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating score rows: %w", err)
	}

	return scores, total, nil
}

// Stats aggregates the user's score history over the most recent
// statsSampleSize assessments.
func (s *PostgresScoreStore) Stats(ctx context.Context, userID uuid.UUID) (*store.ScoreStats, error) {
	query := `
		SELECT overall_rating
		FROM scores
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, statsSampleSize)
	if err != nil {
		logger.FromContext(ctx).Error("failed to query score stats",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to query score stats: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ratings []float64
	for rows.Next() {
		var rating float64
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}

	return buildStats(ratings), nil
}

// Delete removes a score owned by userID.
func (s *PostgresScoreStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete score",
			"score_id", id,
			"user_id", userID,
			"error", err)
		return fmt.Errorf("failed to delete score: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrScoreNotFound
	}

	return nil
}

// buildStats computes the aggregate from ratings ordered newest first.
func buildStats(ratings []float64) *store.ScoreStats {
	stats := &store.ScoreStats{RecentTrend: []float64{}}
	if len(ratings) == 0 {
		return stats
	}

	stats.TotalScores = len(ratings)
	stats.LatestRating = ratings[0]
	stats.HighestRating = ratings[0]
	stats.LowestRating = ratings[0]

	var sum float64
	for _, r := range ratings {
		sum += r
		if r > stats.HighestRating {
			stats.HighestRating = r
		}
		if r < stats.LowestRating {
			stats.LowestRating = r
		}
	}
	// One decimal place, matching what clients display.
	stats.AverageRating = math.Round(sum/float64(len(ratings))*10) / 10

	trend := ratings
	if len(trend) > 5 {
		trend = trend[:5]
	}
	// Reverse into chronological order.
	for i := len(trend) - 1; i >= 0; i-- {
		stats.RecentTrend = append(stats.RecentTrend, trend[i])
	}

	return stats
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanScore reads one score row into a domain.Score.
func scanScore(row rowScanner) (*domain.Score, error) {
	var score domain.Score
	var improvements []byte

	err := row.Scan(
		&score.ID,
		&score.UserID,
		&score.VideoURL,
		&score.OverallRating,
		&score.ServeScore,
		&score.ServeReason,
		&score.ForehandScore,
		&score.ForehandReason,
		&score.BackhandScore,
		&score.BackhandReason,
		&score.MovementScore,
		&score.MovementReason,
		&score.NetPlayScore,
		&score.NetPlayReason,
		&improvements,
		&score.RawResponse,
		&score.CreatedAt,
		&score.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(improvements) > 0 {
		if err := json.Unmarshal(improvements, &score.Improvements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal improvements: %w", err)
		}
	}

	return &score, nil
}
