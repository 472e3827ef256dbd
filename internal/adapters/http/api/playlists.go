// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/aimdash/aimdash/internal/adapters/fs/playlist"
)

// PlaylistDependencies defines the interface for playlist reads.
type PlaylistDependencies interface {
	Playlists(ctx context.Context) []string
	PlaylistScenarios(ctx context.Context, name string) []string
	RankData(ctx context.Context, playlistName, scenario string) []playlist.Rank
}

// PlaylistsHandler handles playlist requests.
type PlaylistsHandler struct {
	deps PlaylistDependencies
}

// NewPlaylistsHandler creates a new playlists handler.
func NewPlaylistsHandler(deps PlaylistDependencies) *PlaylistsHandler {
	return &PlaylistsHandler{deps: deps}
}

type playlistListResponse struct {
	Playlists []string `json:"playlists"`
}

type playlistResponse struct {
	Name      string   `json:"name"`
	Scenarios []string `json:"scenarios"`
}

type rankResponse struct {
	Ranks []playlist.Rank `json:"ranks"`
}

// HandleList handles GET /playlists requests. With ?name= it returns
// the scenarios of that playlist; adding &scenario= returns the rank
// ladder the playlist defines for that scenario.
func (h *PlaylistsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeJSON(w, http.StatusOK, playlistListResponse{Playlists: h.deps.Playlists(ctx)})
		return
	}

	if scenario := q.Get("scenario"); scenario != "" {
		ranks := h.deps.RankData(ctx, name, scenario)
		if ranks == nil {
			writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, rankResponse{Ranks: ranks})
		return
	}

	scenarios := h.deps.PlaylistScenarios(ctx, name)
	if scenarios == nil {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, playlistResponse{Name: name, Scenarios: scenarios})
}
