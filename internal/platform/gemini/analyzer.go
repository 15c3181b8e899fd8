// Package gemini implements the analysis.Analyzer interface using Google's
// Gemini API, passing the video by URI alongside the scoring prompt.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/config"
	"google.golang.org/genai"
)

// Error definitions for the gemini package.
var (
	// ErrEmptyVideoURL is returned when no video reference is supplied.
	ErrEmptyVideoURL = errors.New("video URL cannot be empty")

	// ErrInvalidConfig is returned when the analyzer configuration is invalid.
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)

// Generation parameters for the assessment call. Temperature matches the
// upstream scoring behavior; the token cap comfortably fits the JSON answer.
const (
	temperature     float32 = 0.7
	maxOutputTokens int32   = 3000
)

// videoMIMEType is sent with the video part. Uploads are constrained to MP4
// by the client, so the URI handed to the model is always an MP4 object.
const videoMIMEType = "video/mp4"

// VideoAnalyzer implements the analysis.Analyzer interface using the Gemini
// API. One instance is shared by all submissions; the underlying client is
// safe for concurrent use.
type VideoAnalyzer struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// Compile-time check that VideoAnalyzer satisfies analysis.Analyzer.
var _ analysis.Analyzer = (*VideoAnalyzer)(nil)

// NewVideoAnalyzer creates a VideoAnalyzer with the provided dependencies.
func NewVideoAnalyzer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*VideoAnalyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &VideoAnalyzer{
		logger: logger,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Analyze submits the video and prompt to the model and returns its raw text
// response. No retries are attempted; the orchestrator treats a failure as
// terminal for the submission.
func (a *VideoAnalyzer) Analyze(ctx context.Context, videoURL, prompt string) (string, error) {
	if videoURL == "" {
		return "", ErrEmptyVideoURL
	}

	a.logger.InfoContext(ctx, "calling Gemini for video assessment",
		"model", a.model,
		"prompt_length", len(prompt))

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(videoURL, videoMIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	response, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := response.Text()
	a.logger.DebugContext(ctx, "received Gemini response",
		"response_length", len(text))

	return text, nil
}
