package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aimdash/aimdash/pkg/logger"
)

func TestWatcherEmitsCreateEvents(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir, WithEventBuffer(8))
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "1w4ts - Challenge - 2025.01.01-10.00.00 Stats.csv")
	if err := os.WriteFile(path, []byte("Score:,1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events():
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}
}

func TestWatcherIgnoresDirectories(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(dir)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Close()

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	filePath := filepath.Join(dir, "after.csv")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The directory event is dropped; the next event is the file.
	select {
	case got := <-w.Events():
		if got != filePath {
			t.Errorf("expected %s, got %s", filePath, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}
}

func TestWatcherStartFailsOnMissingDir(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	w := New(filepath.Join(t.TempDir(), "absent"))
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected start on a missing directory to fail")
	}
}
