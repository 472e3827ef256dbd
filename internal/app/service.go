// Package service wires the run-history components together and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/aimdash/aimdash/internal/adapters/fs/discovery"
	"github.com/aimdash/aimdash/internal/adapters/fs/playlist"
	"github.com/aimdash/aimdash/internal/adapters/fs/watcher"
	notifyqueue "github.com/aimdash/aimdash/internal/adapters/mq/queue"
	ingestworker "github.com/aimdash/aimdash/internal/adapters/mq/worker"
	repository "github.com/aimdash/aimdash/internal/adapters/repository"
	"github.com/aimdash/aimdash/internal/domain/dedupe"
	"github.com/aimdash/aimdash/internal/domain/model"
	"github.com/aimdash/aimdash/internal/domain/parse"
	"github.com/aimdash/aimdash/internal/domain/threshold"
	"github.com/aimdash/aimdash/pkg/logger"
	"github.com/aimdash/aimdash/pkg/metrics"
)

// Service owns the scenario index, the stats directory watcher, the
// ingest worker, and the notification queue.
type Service struct {
	mu sync.RWMutex

	// Core components
	index     repository.Store
	queue     notifyqueue.Queue
	parser    *parse.Extractor
	deduper   dedupe.Deduper
	watcher   *watcher.Watcher
	worker    *ingestworker.IngestWorker
	playlists *playlist.Library

	// Configuration
	statsDir       string
	playlistDir    string
	sensDecimals   int
	debounce       time.Duration
	queueSize      int
	dedupeSize     int
	defaultTopN    int
	maxTopN        int
	thresholdRatio float64

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStatsDir sets the directory scanned and watched for stats files.
func WithStatsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.statsDir = dir
		}
	}
}

// WithPlaylistDir sets the directory holding playlist definitions.
func WithPlaylistDir(dir string) Option {
	return func(s *Service) {
		s.playlistDir = dir
	}
}

// WithSensDecimals sets how many decimal places sensitivity values keep.
func WithSensDecimals(places int) Option {
	return func(s *Service) {
		if places >= 0 {
			s.sensDecimals = places
		}
	}
}

// WithDebounce sets how long the worker waits after a create event
// before reading the file.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithQueueSize sets the maximum size of the notification queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the seen-path cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithTopNBounds sets the default and maximum top-N for view queries.
func WithTopNBounds(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultTopN = def
		}
		if max >= def {
			s.maxTopN = max
		}
	}
}

// WithThresholdRatio sets the near-high-score ratio used for telemetry.
func WithThresholdRatio(ratio float64) Option {
	return func(s *Service) {
		if ratio > 0 && ratio <= 1 {
			s.thresholdRatio = ratio
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		statsDir:       "stats",
		playlistDir:    "resources/playlists",
		sensDecimals:   2,
		debounce:       time.Second,
		queueSize:      1024,
		dedupeSize:     10000,
		defaultTopN:    5,
		maxTopN:        100,
		thresholdRatio: 0.95,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the existing run history, starts watching the stats
// directory, and launches the ingest worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting run-history service",
		logger.String("statsDir", s.statsDir),
		logger.String("playlistDir", s.playlistDir),
	)

	s.index = repository.NewIndexStore()
	s.parser = parse.New(parse.WithSensDecimals(s.sensDecimals))
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = notifyqueue.NewInMemoryQueue(
		notifyqueue.WithCapacity(s.queueSize),
	)
	s.playlists = playlist.NewLibrary(
		playlist.WithLogger(s.logger.Named("playlists")),
	)

	if err := s.playlists.LoadDir(ctx, s.playlistDir); err != nil {
		s.logger.Warn(ctx, "playlist load failed",
			logger.String("dir", s.playlistDir),
			logger.Error(err),
		)
	}

	if err := s.loadHistory(ctx); err != nil {
		return err
	}

	s.watcher = watcher.New(s.statsDir,
		watcher.WithLogger(s.logger.Named("watcher")),
	)
	if err := s.watcher.Start(ctx); err != nil {
		return err
	}

	s.worker = ingestworker.NewIngestWorker(
		s.watcher.Events(), s.parser, s.index, s.queue,
		ingestworker.WithDebounce(s.debounce),
		ingestworker.WithDeduper(s.deduper),
		ingestworker.WithThresholdEvaluator(threshold.New(threshold.WithRatio(s.thresholdRatio))),
		ingestworker.WithLogger(s.logger.Named("worker")),
	)

	workerCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker.Run(workerCtx)

	s.started = true
	s.logger.Info(ctx, "run-history service started",
		logger.Int("runs", s.index.Count(ctx)),
		logger.Int("scenarios", len(s.index.Scenarios(ctx))),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// loadHistory parses every stats file already present in the stats
// directory and fills the index. Unreadable files are skipped. Seen
// paths are recorded so the watcher cannot replay them.
func (s *Service) loadHistory(ctx context.Context) error {
	start := time.Now()

	paths, err := discovery.ListCandidateFiles(s.statsDir)
	if err != nil {
		return err
	}

	var loaded, failed int
	for _, path := range paths {
		s.deduper.SeenAndRecord(ctx, path)

		rec, err := s.parser.Extract(path)
		if err != nil {
			failed++
			metrics.RecordParseFailure()
			s.logger.Warn(ctx, "skipping unreadable stats file",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}

		s.index.Ingest(ctx, rec)
		loaded++
		metrics.RecordFileLoaded()
	}

	s.logger.Info(ctx, "run history loaded",
		logger.Int("loaded", loaded),
		logger.Int("failed", failed),
		logger.Any("duration", time.Since(start)),
	)

	return nil
}

// Stop shuts the service down. The watcher stops first so no new
// events arrive, then the worker, then the queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping run-history service")

	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.worker != nil {
		select {
		case <-s.worker.Done():
		case <-time.After(5 * time.Second):
			s.logger.Warn(ctx, "worker did not stop in time")
		}
	}
	if q, ok := s.queue.(*notifyqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "run-history service stopped")
}

// Scenarios returns the names of all scenarios with at least one run.
func (s *Service) Scenarios(ctx context.Context) []string {
	return s.index.Scenarios(ctx)
}

// UniqueScenarioNames lists scenario names derived from the stats
// directory contents, regardless of whether the files parsed.
func (s *Service) UniqueScenarioNames(ctx context.Context) ([]string, error) {
	return discovery.UniqueScenarioNames(s.statsDir)
}

// Stats returns the per-scenario summary for a scenario.
func (s *Service) Stats(ctx context.Context, scenario string) (model.ScenarioStats, error) {
	return s.index.Stats(ctx, scenario)
}

// HighScore returns the best score recorded for a scenario.
func (s *Service) HighScore(ctx context.Context, scenario string) (float64, error) {
	return s.index.HighScore(ctx, scenario)
}

// SensitivityView returns the qualifying runs per sensitivity bucket.
// A topN of zero falls back to the configured default; values above
// the configured maximum are clamped.
func (s *Service) SensitivityView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.Bucket, error) {
	return s.index.SensitivityView(ctx, scenario, s.clampTopN(topN), oldest)
}

// TimeView returns the qualifying runs grouped by calendar day.
func (s *Service) TimeView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]repository.DayGroup, error) {
	return s.index.TimeView(ctx, scenario, s.clampTopN(topN), oldest)
}

// DrainNotifications removes and returns up to max pending
// notifications in arrival order. A max of zero drains everything.
func (s *Service) DrainNotifications(ctx context.Context, max int) []model.Notification {
	var out []model.Notification
	for max <= 0 || len(out) < max {
		n, ok := s.queue.TryDequeue(ctx)
		if !ok {
			break
		}
		out = append(out, n)
	}
	return out
}

// Playlists returns the names of all loaded playlists.
func (s *Service) Playlists(ctx context.Context) []string {
	return s.playlists.Playlists(ctx)
}

// PlaylistScenarios returns the scenario names of a playlist in
// playlist order.
func (s *Service) PlaylistScenarios(ctx context.Context, name string) []string {
	return s.playlists.ScenarioNames(ctx, name)
}

// RankData returns the rank ladder a playlist defines for a scenario.
func (s *Service) RankData(ctx context.Context, playlistName, scenario string) []playlist.Rank {
	return s.playlists.RankData(ctx, playlistName, scenario)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"statsDir":  s.statsDir,
		"queueSize": s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		scenarios := len(s.index.Scenarios(ctx))
		runs := s.index.Count(ctx)

		stats["queueLength"] = queueLen
		stats["scenarios"] = scenarios
		stats["runs"] = runs
		stats["seenPaths"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateIndexScenarioCount(scenarios)
		metrics.UpdateIndexRunCount(runs)
	}

	return stats
}

func (s *Service) clampTopN(n int) int {
	if n <= 0 {
		return s.defaultTopN
	}
	if n > s.maxTopN {
		return s.maxTopN
	}
	return n
}
