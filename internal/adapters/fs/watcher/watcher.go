// Package watcher turns OS file-system notifications into a stream of
// "file created" events for the ingestion pipeline.
package watcher

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/aimdash/aimdash/pkg/logger"
	"github.com/aimdash/aimdash/pkg/metrics"
)

const defaultEventBuffer = 256

// Watcher subscribes to creation events in one directory and publishes
// the created file paths on a channel. Directory events are dropped.
type Watcher struct {
	dir    string
	buffer int

	fw     *fsnotify.Watcher
	events chan string
	logger logger.Logger
}

// New creates a Watcher for dir with configuration options. The watch
// does not start until Start is called.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:    dir,
		buffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("watcher")
	}
	w.events = make(chan string, w.buffer)
	return w
}

// Events returns the channel of created file paths. The channel is
// closed when the watch loop exits.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Start begins watching. The loop runs until ctx is canceled or Close
// is called, then closes the events channel.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatchInit, err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("%w: %s: %w", ErrWatchDir, w.dir, err)
	}
	w.fw = fw

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			metrics.RecordWatcherEvent()
			w.logger.Debug(ctx, "detected new file", logger.String("path", event.Name))
			select {
			case w.events <- event.Name:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			metrics.RecordWatcherError()
			w.logger.Warn(ctx, "watch error", logger.Error(err))
		}
	}
}

// Close stops the underlying OS watch. The run loop drains and exits.
func (w *Watcher) Close() error {
	if w.fw == nil {
		return nil
	}
	if err := w.fw.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}
