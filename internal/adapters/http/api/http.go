// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aimdash/aimdash/internal/adapters/fs/playlist"
	"github.com/aimdash/aimdash/internal/adapters/repository"
	"github.com/aimdash/aimdash/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Scenario reads.
	Scenarios(ctx context.Context) []string
	UniqueScenarioNames(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, scenario string) (model.ScenarioStats, error)
	HighScore(ctx context.Context, scenario string) (float64, error)

	// Run views.
	SensitivityView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.Bucket, error)
	TimeView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.DayGroup, error)

	// Notification drain.
	DrainNotifications(ctx context.Context, max int) []model.Notification

	// Playlist reads.
	Playlists(ctx context.Context) []string
	PlaylistScenarios(ctx context.Context, name string) []string
	RankData(ctx context.Context, playlistName, scenario string) []playlist.Rank
}

// Server wires HTTP routes for the run-history API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	scenariosHandler     *ScenariosHandler
	viewsHandler         *ViewsHandler
	notificationsHandler *NotificationsHandler
	playlistsHandler     *PlaylistsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		scenariosHandler:     NewScenariosHandler(deps),
		viewsHandler:         NewViewsHandler(deps),
		notificationsHandler: NewNotificationsHandler(deps),
		playlistsHandler:     NewPlaylistsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/scenarios", MetricsMiddleware(s.scenariosHandler.HandleList, "scenarios"))
	mux.HandleFunc("/scenarios/stats", MetricsMiddleware(s.scenariosHandler.HandleStats, "scenario_stats"))
	mux.HandleFunc("/view/sensitivity", MetricsMiddleware(s.viewsHandler.HandleSensitivity, "view_sensitivity"))
	mux.HandleFunc("/view/time", MetricsMiddleware(s.viewsHandler.HandleTime, "view_time"))
	mux.HandleFunc("/notifications", MetricsMiddleware(s.notificationsHandler.HandleDrain, "notifications"))
	mux.HandleFunc("/playlists", MetricsMiddleware(s.playlistsHandler.HandleList, "playlists"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
