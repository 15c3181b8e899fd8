package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/api/shared"
)

// AnalysisHandler handles video assessment submissions and status polls.
type AnalysisHandler struct {
	service   *analysis.Service
	validator *validator.Validate
}

// NewAnalysisHandler creates a new AnalysisHandler with the given dependencies.
func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Analyze handles POST /analysis/video. The call is synchronous: it blocks through
// the model call and returns the validated result, a 409 when the user or
// video already has an assessment in flight, or a 503 when coordination is
// unreachable.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A valid video_url is required")
		return
	}

	result, err := h.service.SubmitAnalysis(r.Context(), userID, req.VideoURL)
	if err != nil {
		// A rejection carries the conflicting task's metadata so the client
		// can poll its status instead of retrying blindly.
		var alreadyActive *analysis.AlreadyActiveError
		if errors.As(err, &alreadyActive) && alreadyActive.TaskID != "" {
			startedAt := alreadyActive.StartedAt
			shared.RespondWithJSON(w, r, http.StatusConflict, TaskStatusResponse{
				Active:    true,
				TaskID:    alreadyActive.TaskID,
				StartedAt: &startedAt,
			})
			return
		}

		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyzeResponse{Result: result})
}

// TaskStatus handles GET /analysis/status, reporting whether the caller has
// an assessment in flight.
func (h *AnalysisHandler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	record, err := h.service.TaskStatus(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
			"Service temporarily unavailable, please try again", err)
		return
	}

	if record == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, TaskStatusResponse{Active: false})
		return
	}

	startedAt := record.StartedAt
	shared.RespondWithJSON(w, r, http.StatusOK, TaskStatusResponse{
		Active:    true,
		TaskID:    record.TaskID,
		StartedAt: &startedAt,
	})
}
