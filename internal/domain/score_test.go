package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *AnalysisResult {
	return &AnalysisResult{
		OverallRating: 4.0,
		Serve:         TechnicalScore{Score: 4, Reason: "solid toss"},
		Forehand:      TechnicalScore{Score: 5, Reason: "heavy topspin"},
		Backhand:      TechnicalScore{Score: 3, Reason: "late preparation"},
		Movement:      TechnicalScore{Score: 4, Reason: "good recovery"},
		NetPlay:       TechnicalScore{Score: 4, Reason: "confident volleys"},
		Improvements:  []string{"earlier backhand preparation"},
	}
}

func TestNewScoreFlattensResult(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	score, err := NewScore(userID, "https://cdn.example.com/match.mp4", sampleResult(), `{"raw":true}`)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, score.ID)
	assert.Equal(t, userID, score.UserID)
	assert.InDelta(t, 4.0, score.OverallRating, 1e-9)
	assert.InDelta(t, 5.0, score.ForehandScore, 1e-9)
	assert.Equal(t, "late preparation", score.BackhandReason)
	assert.Equal(t, []string{"earlier backhand preparation"}, score.Improvements)
	assert.Equal(t, `{"raw":true}`, score.RawResponse)
	assert.False(t, score.CreatedAt.IsZero())
}

func TestNewScoreValidation(t *testing.T) {
	t.Parallel()

	_, err := NewScore(uuid.Nil, "https://cdn.example.com/match.mp4", sampleResult(), "")
	assert.ErrorIs(t, err, ErrScoreUserIDEmpty)

	_, err = NewScore(uuid.New(), "", sampleResult(), "")
	assert.ErrorIs(t, err, ErrScoreVideoURLEmpty)
}

func TestScoreResultRoundTrip(t *testing.T) {
	t.Parallel()

	original := sampleResult()
	score, err := NewScore(uuid.New(), "https://cdn.example.com/match.mp4", original, "")
	require.NoError(t, err)

	assert.Equal(t, original, score.Result())
}
