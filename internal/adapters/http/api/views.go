// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aimdash/aimdash/internal/adapters/repository"
	"github.com/aimdash/aimdash/internal/domain/model"
)

// dateLayout is the format of the oldest query parameter.
const dateLayout = "2006-01-02"

// ViewDependencies defines the interface for run view queries.
type ViewDependencies interface {
	SensitivityView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.Bucket, error)
	TimeView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.DayGroup, error)
}

// ViewsHandler handles sensitivity and time view requests.
type ViewsHandler struct {
	deps ViewDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

type runResponse struct {
	PlayedAt time.Time `json:"played_at"`
	Score    float64   `json:"score"`
	Accuracy float64   `json:"accuracy"`
}

type bucketResponse struct {
	Sensitivity string        `json:"sensitivity"`
	Runs        []runResponse `json:"runs"`
}

type dayResponse struct {
	Day  string        `json:"day"`
	Runs []runResponse `json:"runs"`
}

// HandleSensitivity handles GET /view/sensitivity requests. Query
// parameters: scenario (required), top, oldest (YYYY-MM-DD).
func (h *ViewsHandler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	scenario, topN, oldest, err := viewParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	buckets, err := h.deps.SensitivityView(r.Context(), scenario, topN, oldest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketResponse{
			Sensitivity: b.Key,
			Runs:        runResponses(b.Runs),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleTime handles GET /view/time requests with the same query
// parameters as the sensitivity view.
func (h *ViewsHandler) HandleTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	scenario, topN, oldest, err := viewParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	days, err := h.deps.TimeView(r.Context(), scenario, topN, oldest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]dayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dayResponse{
			Day:  d.Day.Format(dateLayout),
			Runs: runResponses(d.Runs),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func viewParams(r *http.Request) (scenario string, topN int, oldest time.Time, err error) {
	q := r.URL.Query()

	scenario = q.Get("scenario")
	if scenario == "" {
		return "", 0, time.Time{}, errors.New("missing scenario")
	}

	if raw := q.Get("top"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN < 1 {
			return "", 0, time.Time{}, errors.New("invalid top; must be a positive integer")
		}
	}

	if raw := q.Get("oldest"); raw != "" {
		oldest, err = time.Parse(dateLayout, raw)
		if err != nil {
			return "", 0, time.Time{}, errors.New("invalid oldest; must be YYYY-MM-DD")
		}
	}

	return scenario, topN, oldest, nil
}

func runResponses(runs []model.RunRecord) []runResponse {
	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse{
			PlayedAt: run.PlayedAt,
			Score:    run.Score,
			Accuracy: run.Accuracy,
		})
	}
	return out
}
