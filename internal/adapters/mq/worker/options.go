package worker

import (
	"time"

	"github.com/aimdash/aimdash/internal/domain/dedupe"
	"github.com/aimdash/aimdash/internal/domain/threshold"
	"github.com/aimdash/aimdash/pkg/logger"
)

// Option applies a configuration option to the IngestWorker.
type Option func(*IngestWorker)

// WithDebounce sets how long the worker waits before reading a newly
// created file.
func WithDebounce(d time.Duration) Option {
	return func(w *IngestWorker) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithDeduper sets a custom deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(w *IngestWorker) {
		if d != nil {
			w.deduper = d
		}
	}
}

// WithThresholdEvaluator sets the score-threshold telemetry evaluator.
func WithThresholdEvaluator(e *threshold.Evaluator) Option {
	return func(w *IngestWorker) {
		if e != nil {
			w.verdicts = e
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *IngestWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
