package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Score
var (
	ErrScoreIDEmpty       = errors.New("score ID cannot be empty")
	ErrScoreUserIDEmpty   = errors.New("score user ID cannot be empty")
	ErrScoreVideoURLEmpty = errors.New("score video URL cannot be empty")
)

// Score is the persisted record of one completed video assessment. The five
// technical scores are flattened into explicit columns rather than nested
// structures so the persistence layer stays plain SQL with explicit foreign
// keys.
type Score struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	VideoURL       string    `json:"video_url"`
	OverallRating  float64   `json:"overall_rating"`
	ServeScore     float64   `json:"serve_score"`
	ServeReason    string    `json:"serve_reason"`
	ForehandScore  float64   `json:"forehand_score"`
	ForehandReason string    `json:"forehand_reason"`
	BackhandScore  float64   `json:"backhand_score"`
	BackhandReason string    `json:"backhand_reason"`
	MovementScore  float64   `json:"movement_score"`
	MovementReason string    `json:"movement_reason"`
	NetPlayScore   float64   `json:"net_play_score"`
	NetPlayReason  string    `json:"net_play_reason"`
	Improvements   []string  `json:"improvements"`
	RawResponse    string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewScore flattens an AnalysisResult into a persistable Score for the given
// user and video. RawResponse keeps the unparsed model output for later
// debugging of scoring quality.
func NewScore(userID uuid.UUID, videoURL string, result *AnalysisResult, rawResponse string) (*Score, error) {
	score := &Score{
		ID:             uuid.New(),
		UserID:         userID,
		VideoURL:       videoURL,
		OverallRating:  result.OverallRating,
		ServeScore:     result.Serve.Score,
		ServeReason:    result.Serve.Reason,
		ForehandScore:  result.Forehand.Score,
		ForehandReason: result.Forehand.Reason,
		BackhandScore:  result.Backhand.Score,
		BackhandReason: result.Backhand.Reason,
		MovementScore:  result.Movement.Score,
		MovementReason: result.Movement.Reason,
		NetPlayScore:   result.NetPlay.Score,
		NetPlayReason:  result.NetPlay.Reason,
		Improvements:   result.Improvements,
		RawResponse:    rawResponse,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := score.Validate(); err != nil {
		return nil, err
	}

	return score, nil
}

// Validate checks if the Score has valid data.
// Returns an error if any field fails validation.
func (s *Score) Validate() error {
	if s.ID == uuid.Nil {
		return ErrScoreIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrScoreUserIDEmpty
	}

	if s.VideoURL == "" {
		return ErrScoreVideoURLEmpty
	}

	return nil
}

// Result reconstructs the AnalysisResult view of a persisted score, used
// when returning stored assessments through the API.
func (s *Score) Result() *AnalysisResult {
	return &AnalysisResult{
		OverallRating: s.OverallRating,
		Serve:         TechnicalScore{Score: s.ServeScore, Reason: s.ServeReason},
		Forehand:      TechnicalScore{Score: s.ForehandScore, Reason: s.ForehandReason},
		Backhand:      TechnicalScore{Score: s.BackhandScore, Reason: s.BackhandReason},
		Movement:      TechnicalScore{Score: s.MovementScore, Reason: s.MovementReason},
		NetPlay:       TechnicalScore{Score: s.NetPlayScore, Reason: s.NetPlayReason},
		Improvements:  s.Improvements,
	}
}
