package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aimdash/aimdash/pkg/logger"
)

const subTableHeader = "Weapon,Shots,Hits,Damage Done,Damage Possible,,Sens Scale,Horiz Sens,Vert Sens,FOV,Hide Gun,Crosshair,Crosshair Scale,Crosshair Color,ADS Sens,ADS Zoom Scale,Avg Target Scale,Avg Time Dilation"

func writeStats(t *testing.T, dir, scenario, stamp, score, sens string) string {
	t.Helper()
	name := scenario + " - Challenge - " + stamp + " Stats.csv"
	body := "Score:," + score + "\n" +
		"Sens Scale:,Overwatch\n" +
		"Horiz Sens:," + sens + "\n" +
		"Scenario:," + scenario + "\n" +
		subTableHeader + "\n" +
		"Rifle,100,50,0,0,,Overwatch," + sens + ",0,0,0,0,0,0,0,0,0,0\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}
	return path
}

func newStartedService(t *testing.T, statsDir string, opts ...Option) *Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	opts = append([]Option{
		WithStatsDir(statsDir),
		WithDebounce(50 * time.Millisecond),
	}, opts...)
	svc := New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_LoadsExistingHistory(t *testing.T) {
	dir := t.TempDir()
	writeStats(t, dir, "1w4ts", "2025.01.01-10.00.00", "100", "2.5")
	writeStats(t, dir, "1w4ts", "2025.01.02-10.00.00", "120", "2.5")
	writeStats(t, dir, "gp", "2025.01.03-10.00.00", "800", "3")

	// An unreadable file is skipped, not fatal.
	bad := filepath.Join(dir, "gp - Challenge - 2025.01.04-10.00.00 Stats.csv")
	if err := os.WriteFile(bad, []byte("Score:,nope\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc := newStartedService(t, dir)
	ctx := context.Background()

	scenarios := svc.Scenarios(ctx)
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %v", scenarios)
	}

	stats, err := svc.Stats(ctx, "1w4ts")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.RunCount != 2 {
		t.Errorf("expected 2 runs, got %d", stats.RunCount)
	}
	want := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	if !stats.LastPlayed.Equal(want) {
		t.Errorf("last played = %v, want %v", stats.LastPlayed, want)
	}

	high, err := svc.HighScore(ctx, "gp")
	if err != nil || high != 800 {
		t.Errorf("high score = %v, %v", high, err)
	}

	// Startup files never generate notifications.
	if ns := svc.DrainNotifications(ctx, 0); len(ns) != 0 {
		t.Errorf("expected no startup notifications, got %d", len(ns))
	}
}

func TestService_WatcherFeedsIndexAndQueue(t *testing.T) {
	dir := t.TempDir()
	writeStats(t, dir, "gp", "2025.01.01-10.00.00", "100", "2.5")

	svc := newStartedService(t, dir)
	ctx := context.Background()

	writeStats(t, dir, "gp", "2025.01.02-10.00.00", "90", "2.5")

	deadline := time.After(2 * time.Second)
	for {
		if ns := svc.DrainNotifications(ctx, 1); len(ns) == 1 {
			n := ns[0]
			if n.ScenarioName != "gp" || n.RankAmongPeers != 2 {
				t.Fatalf("unexpected notification: %+v", n)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for notification")
		case <-time.After(10 * time.Millisecond):
		}
	}

	stats, err := svc.Stats(ctx, "gp")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.RunCount != 2 {
		t.Errorf("expected 2 runs after watcher ingest, got %d", stats.RunCount)
	}
}

func TestService_ViewsClampTopN(t *testing.T) {
	dir := t.TempDir()
	writeStats(t, dir, "gp", "2025.01.01-10.00.00", "10", "2.5")
	writeStats(t, dir, "gp", "2025.01.01-11.00.00", "20", "2.5")
	writeStats(t, dir, "gp", "2025.01.01-12.00.00", "30", "2.5")

	svc := newStartedService(t, dir, WithTopNBounds(2, 3))
	ctx := context.Background()

	// topN of zero uses the default of 2.
	buckets, err := svc.SensitivityView(ctx, "gp", 0, time.Time{})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(buckets) != 1 || len(buckets[0].Runs) != 2 {
		t.Fatalf("expected one bucket with 2 runs, got %+v", buckets)
	}
	if buckets[0].Runs[0].Score != 30 || buckets[0].Runs[1].Score != 20 {
		t.Errorf("expected best-first runs, got %+v", buckets[0].Runs)
	}

	// Requests beyond the maximum are clamped to 3.
	buckets, err = svc.SensitivityView(ctx, "gp", 50, time.Time{})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(buckets[0].Runs) != 3 {
		t.Errorf("expected clamp to 3 runs, got %d", len(buckets[0].Runs))
	}

	days, err := svc.TimeView(ctx, "gp", 0, time.Time{})
	if err != nil {
		t.Fatalf("time view: %v", err)
	}
	if len(days) != 1 || len(days[0].Runs) != 2 {
		t.Fatalf("expected one day with 2 runs, got %+v", days)
	}
}

func TestService_PlaylistsAndScenarioNames(t *testing.T) {
	statsDir := t.TempDir()
	writeStats(t, statsDir, "1w4ts", "2025.01.01-10.00.00", "100", "2.5")
	writeStats(t, statsDir, "gp", "2025.01.01-11.00.00", "800", "3")

	playlistDir := t.TempDir()
	pl := map[string]interface{}{
		"name": "VDIM Fundamentals",
		"code": "vdim",
		"scenarios": []map[string]interface{}{
			{
				"name": "gp",
				"ranks": []map[string]interface{}{
					{"name": "Bronze", "color": "#cd7f32", "threshold": 500},
					{"name": "Silver", "color": "#c0c0c0", "threshold": 700},
				},
			},
		},
	}
	raw, err := json.Marshal(pl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(playlistDir, "vdim.json"), raw, 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	svc := newStartedService(t, statsDir, WithPlaylistDir(playlistDir))
	ctx := context.Background()

	if got := svc.Playlists(ctx); len(got) != 1 || got[0] != "VDIM Fundamentals" {
		t.Fatalf("playlists = %v", got)
	}
	if got := svc.PlaylistScenarios(ctx, "VDIM Fundamentals"); len(got) != 1 || got[0] != "gp" {
		t.Fatalf("playlist scenarios = %v", got)
	}
	ranks := svc.RankData(ctx, "VDIM Fundamentals", "gp")
	if len(ranks) != 2 || ranks[1].Name != "Silver" {
		t.Fatalf("ranks = %+v", ranks)
	}

	names, err := svc.UniqueScenarioNames(ctx)
	if err != nil {
		t.Fatalf("unique names: %v", err)
	}
	if len(names) != 2 || names[0] != "1w4ts" || names[1] != "gp" {
		t.Errorf("unique names = %v", names)
	}
}

func TestService_GetStats(t *testing.T) {
	dir := t.TempDir()
	writeStats(t, dir, "gp", "2025.01.01-10.00.00", "100", "2.5")

	svc := newStartedService(t, dir)
	stats := svc.GetStats()

	if stats["started"] != true {
		t.Error("expected started to be true")
	}
	if stats["runs"] != 1 {
		t.Errorf("runs = %v", stats["runs"])
	}
	if stats["scenarios"] != 1 {
		t.Errorf("scenarios = %v", stats["scenarios"])
	}
}
