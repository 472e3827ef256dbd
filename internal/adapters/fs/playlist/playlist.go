// Package playlist reads the optional playlist overlay: JSON files
// mapping a playlist name to scenario names and rank thresholds. The
// overlay only feeds scenario listing and chart annotations; it is not
// part of the run-history index.
package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aimdash/aimdash/pkg/logger"
)

// Rank is a named score threshold inside a playlist scenario, e.g.
// "Platinum, #00ffff, 9500".
type Rank struct {
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Threshold float64 `json:"threshold"`
}

// Scenario is one entry of a playlist.
type Scenario struct {
	Name  string `json:"name"`
	Ranks []Rank `json:"ranks,omitempty"`
}

// Playlist is the on-disk playlist cache format.
type Playlist struct {
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Scenarios []Scenario `json:"scenarios"`
}

// Library holds the loaded playlists. Loaded once at startup and then
// only read, but reads take the lock anyway so a future reload hook
// stays safe.
type Library struct {
	mu        sync.RWMutex
	playlists map[string]Playlist
	logger    logger.Logger
}

// NewLibrary creates an empty playlist library.
func NewLibrary(opts ...Option) *Library {
	l := &Library{
		playlists: make(map[string]Playlist),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("playlist")
	}
	return l
}

// LoadDir reads every *.json playlist file in dir. Invalid files and
// duplicate playlist names are logged and skipped, never fatal. A
// missing directory is treated as "no overlay".
func (l *Library) LoadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug(ctx, "no playlist directory", logger.String("dir", dir))
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrReadPlaylists, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn(ctx, "failed to read playlist file", logger.String("path", path), logger.Error(err))
			continue
		}
		var p Playlist
		if err := json.Unmarshal(raw, &p); err != nil || p.Name == "" {
			l.logger.Warn(ctx, "invalid playlist file", logger.String("path", path), logger.Error(err))
			continue
		}

		l.mu.Lock()
		if _, exists := l.playlists[p.Name]; exists {
			l.mu.Unlock()
			l.logger.Warn(ctx, "playlist already loaded", logger.String("name", p.Name))
			continue
		}
		l.playlists[p.Name] = p
		l.mu.Unlock()
	}
	return nil
}

// Playlists returns the sorted names of all loaded playlists.
func (l *Library) Playlists(ctx context.Context) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.playlists))
	for name := range l.playlists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScenarioNames returns the scenario names of one playlist, in
// playlist order. Unknown playlists yield an empty list.
func (l *Library) ScenarioNames(ctx context.Context, playlist string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.playlists[playlist]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(p.Scenarios))
	for _, s := range p.Scenarios {
		names = append(names, s.Name)
	}
	return names
}

// RankData returns the rank thresholds of one playlist scenario, or
// nil when either is unknown.
func (l *Library) RankData(ctx context.Context, playlist, scenario string) []Rank {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.playlists[playlist]
	if !ok {
		l.logger.Warn(ctx, "rank data lookup on unknown playlist",
			logger.String("playlist", playlist), logger.String("scenario", scenario))
		return nil
	}
	for _, s := range p.Scenarios {
		if s.Name == scenario {
			return append([]Rank(nil), s.Ranks...)
		}
	}
	l.logger.Warn(ctx, "rank data lookup on unknown scenario",
		logger.String("playlist", playlist), logger.String("scenario", scenario))
	return nil
}
