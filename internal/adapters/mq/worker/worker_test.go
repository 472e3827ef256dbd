package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aimdash/aimdash/internal/adapters/mq/queue"
	"github.com/aimdash/aimdash/internal/adapters/repository"
	"github.com/aimdash/aimdash/internal/domain/parse"
	"github.com/aimdash/aimdash/pkg/logger"
)

const subTableHeader = "Weapon,Shots,Hits,Damage Done,Damage Possible,,Sens Scale,Horiz Sens,Vert Sens,FOV,Hide Gun,Crosshair,Crosshair Scale,Crosshair Color,ADS Sens,ADS Zoom Scale,Avg Target Scale,Avg Time Dilation"

func writeStats(t *testing.T, dir, scenario, stamp string, score string) string {
	t.Helper()
	name := scenario + " - Challenge - " + stamp + " Stats.csv"
	body := "Score:," + score + "\n" +
		"Sens Scale:,Overwatch\n" +
		"Horiz Sens:,2.35\n" +
		"Scenario:," + scenario + "\n" +
		subTableHeader + "\n" +
		"Rifle,100,50,0,0,,Overwatch,2.35,0,0,0,0,0,0,0,0,0,0\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}
	return path
}

func startWorker(t *testing.T, events chan string) (*repository.IndexStore, *queue.InMemoryQueue, context.CancelFunc) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	store := repository.NewIndexStore()
	q := queue.NewInMemoryQueue(queue.WithCapacity(16))
	w := NewIngestWorker(events, parse.New(), store, q, WithDebounce(0))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Error("worker did not stop")
		}
	})
	return store, q, cancel
}

func waitNotification(t *testing.T, q *queue.InMemoryQueue) queue.Notification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if n, ok := q.TryDequeue(context.Background()); ok {
			return n
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for notification")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func waitCount(t *testing.T, store *repository.IndexStore, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if store.Count(context.Background()) == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("index never reached %d runs (have %d)", want, store.Count(context.Background()))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWorker_NewScenarioRanksFirst(t *testing.T) {
	events := make(chan string, 4)
	store, q, _ := startWorker(t, events)
	dir := t.TempDir()

	events <- writeStats(t, dir, "1w4ts", "2025.01.01-10.00.00", "100")

	n := waitNotification(t, q)
	if n.RankAmongPeers != 1 {
		t.Errorf("expected rank 1 for a new scenario, got %d", n.RankAmongPeers)
	}
	if n.ScenarioName != "1w4ts" || n.SensitivityKey != "2.35 Overwatch" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.ID == "" {
		t.Error("expected a notification id")
	}
	waitCount(t, store, 1)
	if !store.IsKnown(context.Background(), "1w4ts") {
		t.Error("expected scenario to be ingested")
	}
}

func TestWorker_RankAgainstExistingBucket(t *testing.T) {
	events := make(chan string, 8)
	store, q, _ := startWorker(t, events)
	dir := t.TempDir()

	events <- writeStats(t, dir, "gp", "2025.01.01-10.00.00", "80")
	events <- writeStats(t, dir, "gp", "2025.01.01-11.00.00", "90")
	events <- writeStats(t, dir, "gp", "2025.01.01-12.00.00", "100")
	waitNotification(t, q)
	waitNotification(t, q)
	waitNotification(t, q)
	waitCount(t, store, 3)

	// New score of 95 ranks behind only the 100.
	events <- writeStats(t, dir, "gp", "2025.01.01-13.00.00", "95")
	n := waitNotification(t, q)
	if n.RankAmongPeers != 2 {
		t.Errorf("expected rank 2, got %d", n.RankAmongPeers)
	}
	waitCount(t, store, 4)
}

func TestWorker_NewSensitivityBucketRanksFirst(t *testing.T) {
	events := make(chan string, 4)
	store, q, _ := startWorker(t, events)
	dir := t.TempDir()

	events <- writeStats(t, dir, "gp", "2025.01.01-10.00.00", "500")
	waitNotification(t, q)
	waitCount(t, store, 1)

	// Same scenario, different sensitivity: different file body.
	name := "gp - Challenge - 2025.01.01-11.00.00 Stats.csv"
	body := "Score:,10\nSens Scale:,Overwatch\nHoriz Sens:,4.0\nScenario:,gp\n" +
		subTableHeader + "\nRifle,100,50,0,0,,Overwatch,4.0,0,0,0,0,0,0,0,0,0,0\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}
	events <- path

	n := waitNotification(t, q)
	if n.RankAmongPeers != 1 {
		t.Errorf("expected rank 1 for a new bucket, got %d", n.RankAmongPeers)
	}
	if n.SensitivityKey != "4 Overwatch" {
		t.Errorf("unexpected sensitivity key: %s", n.SensitivityKey)
	}
}

func TestWorker_ParseFailureIsDropped(t *testing.T) {
	events := make(chan string, 4)
	store, q, _ := startWorker(t, events)
	dir := t.TempDir()

	bad := filepath.Join(dir, "gp - Challenge - 2025.01.01-10.00.00 Stats.csv")
	if err := os.WriteFile(bad, []byte("Score:,broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	events <- bad
	events <- writeStats(t, dir, "gp", "2025.01.01-11.00.00", "100")

	// Only the good file produces a notification and an ingest.
	n := waitNotification(t, q)
	if n.Score != 100 {
		t.Errorf("expected the good file's notification, got %+v", n)
	}
	waitCount(t, store, 1)
}

func TestWorker_IgnoresIrrelevantAndDuplicatePaths(t *testing.T) {
	events := make(chan string, 8)
	store, q, _ := startWorker(t, events)
	dir := t.TempDir()

	events <- filepath.Join(dir, "notes.txt")
	path := writeStats(t, dir, "gp", "2025.01.01-10.00.00", "100")
	events <- path
	events <- path // duplicate create event

	waitNotification(t, q)
	waitCount(t, store, 1)

	// Allow the duplicate to be processed, then confirm nothing changed.
	time.Sleep(50 * time.Millisecond)
	if got := store.Count(context.Background()); got != 1 {
		t.Errorf("expected duplicate event to be skipped, index has %d runs", got)
	}
	if _, ok := q.TryDequeue(context.Background()); ok {
		t.Error("expected no extra notifications")
	}
}
