package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/topspin/topspin-api/internal/domain"
	"github.com/topspin/topspin-api/internal/store"
)

// LoginRequest is the request for the /auth/login endpoint. Code is the
// temporary login code the WeChat mini-program client obtained from wx.login.
type LoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// RefreshTokenRequest is the request for the /auth/refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest is the request for the /users/me endpoint. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname,omitempty" validate:"omitempty,max=64"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// AnalyzeRequest is the request for the /analysis endpoint.
type AnalyzeRequest struct {
	VideoURL string `json:"video_url" validate:"required,url"`
}

// UserResponse is the API view of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is the response for login and refresh endpoints.
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user,omitempty"`
}

// AnalyzeResponse is the response for a completed analysis submission.
type AnalyzeResponse struct {
	Result *domain.AnalysisResult `json:"result"`
}

// TaskStatusResponse reports whether the user has an analysis in flight.
type TaskStatusResponse struct {
	Active    bool       `json:"active"`
	TaskID    string     `json:"task_id,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// ScoreResponse is the API view of one persisted assessment.
type ScoreResponse struct {
	ID        uuid.UUID              `json:"id"`
	VideoURL  string                 `json:"video_url"`
	Result    *domain.AnalysisResult `json:"result"`
	CreatedAt time.Time              `json:"created_at"`
}

// ScoreListResponse is one page of score history.
type ScoreListResponse struct {
	Scores []*ScoreResponse `json:"scores"`
	Total  int              `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// ScoreStatsResponse reports aggregate statistics over recent scores.
type ScoreStatsResponse struct {
	TotalScores   int       `json:"total_scores"`
	AverageRating float64   `json:"average_rating"`
	HighestRating float64   `json:"highest_rating"`
	LowestRating  float64   `json:"lowest_rating"`
	LatestRating  float64   `json:"latest_rating"`
	RecentTrend   []float64 `json:"recent_trend"`
}

// toUserResponse converts a domain user to its API view. The openid is
// deliberately absent: it is a WeChat-scoped identifier, not client data.
func toUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

func toScoreResponse(score *domain.Score) *ScoreResponse {
	return &ScoreResponse{
		ID:        score.ID,
		VideoURL:  score.VideoURL,
		Result:    score.Result(),
		CreatedAt: score.CreatedAt,
	}
}

func toScoreStatsResponse(stats *store.ScoreStats) *ScoreStatsResponse {
	return &ScoreStatsResponse{
		TotalScores:   stats.TotalScores,
		AverageRating: stats.AverageRating,
		HighestRating: stats.HighestRating,
		LowestRating:  stats.LowestRating,
		LatestRating:  stats.LatestRating,
		RecentTrend:   stats.RecentTrend,
	}
}
