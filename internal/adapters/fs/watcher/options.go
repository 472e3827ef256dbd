package watcher

import "github.com/aimdash/aimdash/pkg/logger"

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithEventBuffer sets the capacity of the events channel.
func WithEventBuffer(size int) Option {
	return func(w *Watcher) {
		if size > 0 {
			w.buffer = size
		}
	}
}

// WithLogger sets a custom logger for the watcher.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}
