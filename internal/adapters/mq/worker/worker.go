// Package worker reacts to newly created stats files: it parses them,
// ranks the new score among its peers, produces a notification, and
// ingests the record into the scenario index.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aimdash/aimdash/internal/adapters/fs/discovery"
	"github.com/aimdash/aimdash/internal/adapters/mq/queue"
	"github.com/aimdash/aimdash/internal/domain/dedupe"
	"github.com/aimdash/aimdash/internal/domain/model"
	"github.com/aimdash/aimdash/internal/domain/threshold"
	"github.com/aimdash/aimdash/pkg/logger"
	"github.com/aimdash/aimdash/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultDebounce = time.Second
)

// Parser extracts a run record from a stats file.
type Parser interface {
	Extract(path string) (model.RunRecord, error)
}

// Index is the slice of the scenario index the worker needs. The
// worker is the index's only writer.
type Index interface {
	IsKnown(ctx context.Context, scenario string) bool
	Rank(ctx context.Context, scenario, sensKey string, score float64) int
	HighScore(ctx context.Context, scenario string) (float64, error)
	Ingest(ctx context.Context, rec model.RunRecord)
}

// Notifier receives produced notifications.
type Notifier interface {
	Enqueue(ctx context.Context, n queue.Notification) bool
}

// IngestWorker consumes file-creation events and feeds the index.
// Exactly one IngestWorker runs per process; that is what serializes
// all index mutation.
type IngestWorker struct {
	events   <-chan string
	parser   Parser
	index    Index
	notifier Notifier
	deduper  dedupe.Deduper
	verdicts *threshold.Evaluator

	debounce time.Duration

	done chan struct{}

	logger logger.Logger
}

// NewIngestWorker creates a worker with configuration options.
func NewIngestWorker(events <-chan string, parser Parser, index Index, notifier Notifier, opts ...Option) *IngestWorker {
	w := &IngestWorker{
		events:   events,
		parser:   parser,
		index:    index,
		notifier: notifier,
		deduper:  dedupe.NewInMemoryDeduper(),
		verdicts: threshold.New(),
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("ingest-worker")
	}
	return w
}

// Run consumes events until the events channel closes or ctx is
// canceled. Per-file failures are logged and dropped; nothing escapes
// this loop.
func (w *IngestWorker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.events:
			if !ok {
				return
			}
			if err := w.handleFile(ctx, path); err != nil {
				metrics.RecordParseFailure()
				w.logger.Warn(ctx, "failed to handle new file",
					logger.String("path", path),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed when the worker loop has exited.
func (w *IngestWorker) Done() <-chan struct{} {
	return w.done
}

// handleFile runs the full change-detection pipeline for one file.
// The rank is always computed against the pre-insert state; ingest
// happens last.
func (w *IngestWorker) handleFile(ctx context.Context, path string) error {
	start := time.Now()
	defer func() {
		metrics.RecordIngestLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !discovery.IsCandidate(path) {
		return nil
	}
	if w.deduper.SeenAndRecord(ctx, path) {
		w.logger.Debug(ctx, "duplicate create event, skipping", logger.String("path", path))
		return nil
	}

	// Give the game a moment to finish writing the file.
	if err := sleepCtx(ctx, w.debounce); err != nil {
		return err
	}

	rec, err := w.parser.Extract(path)
	if err != nil {
		return fmt.Errorf("extract run data: %w", err)
	}
	metrics.RecordFileLoaded()

	key := rec.SensitivityKey()
	known := w.index.IsKnown(ctx, rec.Scenario)
	rank := w.index.Rank(ctx, rec.Scenario, key, rec.Score)

	if !known {
		w.logger.Debug(ctx, "found new scenario", logger.String("scenario", rec.Scenario))
	} else {
		w.logThresholdVerdict(ctx, rec)
	}

	n := model.Notification{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now(),
		RankAmongPeers: rank,
		ScenarioName:   rec.Scenario,
		Score:          rec.Score,
		SensitivityKey: key,
	}
	if w.notifier.Enqueue(ctx, n) {
		metrics.RecordNotification()
	} else {
		w.logger.Warn(ctx, "notification dropped",
			logger.String("scenario", rec.Scenario),
			logger.Int("rank", rank),
		)
	}

	w.index.Ingest(ctx, rec)
	return nil
}

// logThresholdVerdict emits the "how close to the high score" debug
// line. Telemetry only; it never changes control flow.
func (w *IngestWorker) logThresholdVerdict(ctx context.Context, rec model.RunRecord) {
	high, err := w.index.HighScore(ctx, rec.Scenario)
	if err != nil {
		return
	}
	v := w.verdicts.Evaluate(rec.Score, high)
	w.logger.Debug(ctx, "score threshold verdict",
		logger.String("scenario", rec.Scenario),
		logger.Float64("score", rec.Score),
		logger.Float64("highScore", v.HighScore),
		logger.Float64("threshold", v.Threshold),
		logger.Float64("pctFromHigh", v.PctFromHigh),
		logger.Any("passed", v.Passed),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
