// Package dedupe tracks file paths the ingestion pipeline has already
// handled. Filesystem watchers can surface the same creation more than
// once (editor temp renames, copy-then-rename installs); the deduper
// keeps those from double-counting a run.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 10000

// Deduper records seen file paths to ensure at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks if path was seen and records it
	// if not. Returns true if path was already seen.
	SeenAndRecord(ctx context.Context, path string) bool

	// Size returns the number of tracked paths.
	Size() int
}

// inMemoryDeduper implements Deduper with a bounded map plus a FIFO
// eviction ring. When the bound is reached the oldest path is
// forgotten; a re-created ancient file then simply re-ingests, which
// is harmless for append-only exports.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.order = make([]string, 0, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[path]; ok {
		return true
	}

	if len(d.order) < d.maxSize {
		d.order = append(d.order, path)
	} else {
		delete(d.seen, d.order[d.next])
		d.order[d.next] = path
		d.next = (d.next + 1) % d.maxSize
	}
	d.seen[path] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
