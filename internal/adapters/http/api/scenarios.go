// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aimdash/aimdash/internal/adapters/repository"
	"github.com/aimdash/aimdash/internal/domain/model"
)

// ScenarioDependencies defines the interface for scenario reads.
type ScenarioDependencies interface {
	Scenarios(ctx context.Context) []string
	UniqueScenarioNames(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, scenario string) (model.ScenarioStats, error)
	HighScore(ctx context.Context, scenario string) (float64, error)
}

// ScenariosHandler handles scenario listing and summary requests.
type ScenariosHandler struct {
	deps ScenarioDependencies
}

// NewScenariosHandler creates a new scenarios handler.
func NewScenariosHandler(deps ScenarioDependencies) *ScenariosHandler {
	return &ScenariosHandler{deps: deps}
}

type scenarioListResponse struct {
	Scenarios []string `json:"scenarios"`
}

// HandleList handles GET /scenarios requests. With ?source=files the
// names come from the stats directory listing instead of the index.
func (h *ScenariosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	if r.URL.Query().Get("source") == "files" {
		names, err := h.deps.UniqueScenarioNames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, scenarioListResponse{Scenarios: names})
		return
	}

	names := h.deps.Scenarios(r.Context())
	writeJSON(w, http.StatusOK, scenarioListResponse{Scenarios: names})
}

type scenarioStatsResponse struct {
	Name       string    `json:"name"`
	LastPlayed time.Time `json:"last_played"`
	RunCount   int       `json:"run_count"`
	HighScore  float64   `json:"high_score"`
}

// HandleStats handles GET /scenarios/stats?name=X requests. Without a
// name it returns the summary of every indexed scenario.
func (h *ScenariosHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	name := r.URL.Query().Get("name")
	if name != "" {
		resp, err := h.scenarioStats(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrUnknownScenario) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	names := h.deps.Scenarios(ctx)
	out := make([]scenarioStatsResponse, 0, len(names))
	for _, n := range names {
		resp, err := h.scenarioStats(ctx, n)
		if err != nil {
			continue
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ScenariosHandler) scenarioStats(ctx context.Context, name string) (scenarioStatsResponse, error) {
	stats, err := h.deps.Stats(ctx, name)
	if err != nil {
		return scenarioStatsResponse{}, err
	}
	high, err := h.deps.HighScore(ctx, name)
	if err != nil {
		return scenarioStatsResponse{}, err
	}
	return scenarioStatsResponse{
		Name:       name,
		LastPlayed: stats.LastPlayed,
		RunCount:   stats.RunCount,
		HighScore:  high,
	}, nil
}
