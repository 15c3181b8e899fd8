package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/topspin/topspin-api/internal/domain"
)

// fencedJSONPattern matches a ```json code fence. Models frequently wrap
// their structured answer in one even when asked for bare JSON.
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// technicalFields are the five scored aspects, in canonical order.
var technicalFields = []string{"serve", "forehand", "backhand", "movement", "netPlay"}

// extractPayload locates the structured payload inside the model's free-form
// text response. It prefers a fenced ```json block and falls back to the
// first top-level brace-delimited span. Returns false when neither is found.
func extractPayload(content string) (string, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(content); m != nil {
		return m[1], true
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

// parseResult extracts, decodes and validates the model response, returning
// a normalized AnalysisResult. Parse failures are reported as
// ErrMalformedResponse, structural problems as ErrInvalidResult with every
// offending field named.
func parseResult(content string) (*domain.AnalysisResult, error) {
	payload, ok := extractPayload(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	result, err := buildResult(raw)
	if err != nil {
		return nil, err
	}

	// The overall rating is always recomputed from the five component
	// scores; the model's own value is not trusted.
	result.Normalize()

	return result, nil
}

// buildResult checks the decoded payload field by field and assembles the
// domain result. All violations are collected so the error names every
// offending field, not just the first.
func buildResult(raw map[string]json.RawMessage) (*domain.AnalysisResult, error) {
	var violations []string

	if _, ok := raw["overallRating"]; !ok {
		violations = append(violations, "missing field: overallRating")
	}

	scores := make(map[string]domain.TechnicalScore, len(technicalFields))
	for _, field := range technicalFields {
		data, ok := raw[field]
		if !ok {
			violations = append(violations, "missing field: "+field)
			continue
		}

		var score struct {
			Score  *float64 `json:"score"`
			Reason *string  `json:"reason"`
		}
		if err := json.Unmarshal(data, &score); err != nil || score.Score == nil || score.Reason == nil {
			violations = append(violations, "malformed technical score: "+field)
			continue
		}

		scores[field] = domain.TechnicalScore{Score: *score.Score, Reason: *score.Reason}
	}

	var improvements []string
	if data, ok := raw["improvements"]; !ok {
		violations = append(violations, "missing field: improvements")
	} else if err := json.Unmarshal(data, &improvements); err != nil || improvements == nil {
		// A JSON null decodes into a nil slice without an error; only an
		// actual array is acceptable here.
		violations = append(violations, "improvements must be a list of strings")
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResult, strings.Join(violations, "; "))
	}

	return &domain.AnalysisResult{
		Serve:        scores["serve"],
		Forehand:     scores["forehand"],
		Backhand:     scores["backhand"],
		Movement:     scores["movement"],
		NetPlay:      scores["netPlay"],
		Improvements: improvements,
	}, nil
}
