package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/store"
)

// fakeScoreStore is an in-memory ScoreStore covering what these tests need.
type fakeScoreStore struct {
	scores []*domain.Score
	filter store.ScoreListFilter
}

func (s *fakeScoreStore) Create(ctx context.Context, score *domain.Score) error {
	s.scores = append(s.scores, score)
	return nil
}

func (s *fakeScoreStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Score, error) {
	for _, score := range s.scores {
		if score.ID == id && score.UserID == userID {
			return score, nil
		}
	}
	return nil, store.ErrScoreNotFound
}

func (s *fakeScoreStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.ScoreListFilter) ([]*domain.Score, int, error) {
	s.filter = filter
	return s.scores, len(s.scores), nil
}

func (s *fakeScoreStore) Stats(ctx context.Context, userID uuid.UUID) (*store.ScoreStats, error) {
	return &store.ScoreStats{TotalScores: len(s.scores)}, nil
}

func (s *fakeScoreStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	for i, score := range s.scores {
		if score.ID == id && score.UserID == userID {
			s.scores = append(s.scores[:i], s.scores[i+1:]...)
			return nil
		}
	}
	return store.ErrScoreNotFound
}

func sampleAnalysisResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		OverallRating: 4.0,
		Serve:         domain.TechnicalScore{Score: 4, Reason: "a"},
		Forehand:      domain.TechnicalScore{Score: 5, Reason: "b"},
		Backhand:      domain.TechnicalScore{Score: 3, Reason: "c"},
		Movement:      domain.TechnicalScore{Score: 4, Reason: "d"},
		NetPlay:       domain.TechnicalScore{Score: 4, Reason: "e"},
		Improvements:  []string{"x"},
	}
}

func TestScoreServiceSaveFlattensAndStores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	scoreStore := &fakeScoreStore{}
	service, err := NewScoreService(scoreStore)
	require.NoError(t, err)

	userID := uuid.New()
	err = service.Save(ctx, userID, "https://cdn.example.com/a.mp4", sampleAnalysisResult(), `{"raw":1}`)
	require.NoError(t, err)

	require.Len(t, scoreStore.scores, 1)
	saved := scoreStore.scores[0]
	assert.Equal(t, userID, saved.UserID)
	assert.InDelta(t, 5.0, saved.ForehandScore, 1e-9)
	assert.Equal(t, `{"raw":1}`, saved.RawResponse)
}

func TestScoreServiceListClampsPaging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	scoreStore := &fakeScoreStore{}
	service, err := NewScoreService(scoreStore)
	require.NoError(t, err)

	_, _, err = service.ListScores(ctx, uuid.New(), store.ScoreListFilter{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, scoreStore.filter.Page)
	assert.Equal(t, 10, scoreStore.filter.Limit)

	_, _, err = service.ListScores(ctx, uuid.New(), store.ScoreListFilter{Page: 3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, scoreStore.filter.Page)
	assert.Equal(t, 10, scoreStore.filter.Limit, "oversized limits fall back to the default")
}

func TestScoreServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	scoreStore := &fakeScoreStore{}
	service, err := NewScoreService(scoreStore)
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, service.Save(ctx, userID, "https://cdn.example.com/a.mp4", sampleAnalysisResult(), ""))
	id := scoreStore.scores[0].ID

	require.NoError(t, service.DeleteScore(ctx, id, userID))
	assert.ErrorIs(t, service.DeleteScore(ctx, id, userID), store.ErrScoreNotFound)
}
