package domain

import "math"

// TechnicalScore is one scored aspect of a player's technique, as judged by
// the AI assessment. Score is on the NTRP-style 1-7 scale.
type TechnicalScore struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// AnalysisResult is the structured outcome of a video assessment: five
// technical scores, an overall rating and a list of improvement suggestions.
// It is transient; the persisted form is the flattened Score entity.
type AnalysisResult struct {
	OverallRating float64        `json:"overallRating"`
	Serve         TechnicalScore `json:"serve"`
	Forehand      TechnicalScore `json:"forehand"`
	Backhand      TechnicalScore `json:"backhand"`
	Movement      TechnicalScore `json:"movement"`
	NetPlay       TechnicalScore `json:"netPlay"`
	Improvements  []string       `json:"improvements"`
}

// TechnicalScores returns the five component scores in their canonical order.
func (r *AnalysisResult) TechnicalScores() []float64 {
	return []float64{
		r.Serve.Score,
		r.Forehand.Score,
		r.Backhand.Score,
		r.Movement.Score,
		r.NetPlay.Score,
	}
}

// Normalize recomputes OverallRating as the mean of the five technical
// scores, rounded to the nearest 0.5. Whatever value the upstream model
// supplied is discarded: the derived field must always be consistent with
// its components.
func (r *AnalysisResult) Normalize() {
	scores := r.TechnicalScores()
	var sum float64
	for _, s := range scores {
		sum += s
	}
	r.OverallRating = RoundToHalf(sum / float64(len(scores)))
}

// RoundToHalf rounds v to the nearest 0.5.
func RoundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
