package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/topspin/topspin-api/internal/api/shared"
	"github.com/topspin/topspin-api/internal/service"
	"github.com/topspin/topspin-api/internal/store"
)

// errInvalidQueryParam is returned for query parameters that fail to parse.
var errInvalidQueryParam = errors.New("invalid query parameter")

// ScoreHandler handles score history requests.
type ScoreHandler struct {
	scores *service.ScoreService
}

// NewScoreHandler creates a new ScoreHandler with the given dependencies.
func NewScoreHandler(scores *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// ListScores handles GET /scores with optional paging and filter parameters.
func (h *ScoreHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseScoreListFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	scores, total, err := h.scores.ListScores(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]*ScoreResponse, 0, len(scores))
	for _, score := range scores {
		responses = append(responses, toScoreResponse(score))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ScoreListResponse{
		Scores: responses,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
}

// GetScore handles GET /scores/{id}.
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	score, err := h.scores.GetScore(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toScoreResponse(score))
}

// GetStats handles GET /scores/stats.
func (h *ScoreHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.scores.GetStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toScoreStatsResponse(stats))
}

// DeleteScore handles DELETE /scores/{id}.
func (h *ScoreHandler) DeleteScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	if err := h.scores.DeleteScore(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseScoreListFilter reads the query parameters for score listing. Absent
// parameters leave their zero value, which the store treats as unconstrained.
func parseScoreListFilter(r *http.Request) (store.ScoreListFilter, error) {
	var filter store.ScoreListFilter
	query := r.URL.Query()

	var err error
	if filter.Page, err = intParam(query.Get("page")); err != nil {
		return filter, err
	}
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		return filter, err
	}
	if filter.MinRating, err = floatParam(query.Get("min_rating")); err != nil {
		return filter, err
	}
	if filter.MaxRating, err = floatParam(query.Get("max_rating")); err != nil {
		return filter, err
	}
	if filter.StartDate, err = dateParam(query.Get("start_date")); err != nil {
		return filter, err
	}
	if filter.EndDate, err = dateParam(query.Get("end_date")); err != nil {
		return filter, err
	}

	return filter, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errInvalidQueryParam
	}
	return v, nil
}

func floatParam(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, errInvalidQueryParam
	}
	return v, nil
}

func dateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	v, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errInvalidQueryParam
	}
	return v, nil
}
