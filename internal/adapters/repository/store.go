// Package repository defines the scenario index interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/aimdash/aimdash/internal/domain/model"
)

// Bucket is one sensitivity bucket of a scenario: all runs recorded
// under the same sensitivity key, sorted ascending by score.
type Bucket struct {
	Key  string
	Runs []model.RunRecord
}

// DayGroup is one calendar day of runs for a scenario, highest scores
// first.
type DayGroup struct {
	Day  time.Time
	Runs []model.RunRecord
}

// Store provides read/write access to the in-memory scenario index.
//
// Ingest is single-writer: only the ingestion pipeline calls it, never
// concurrently with itself. All read methods return point-in-time
// copies and are safe to call from any goroutine.
type Store interface {
	// IsKnown reports whether the scenario has at least one run.
	IsKnown(ctx context.Context, scenario string) bool

	// Stats returns aggregate statistics for a scenario.
	// Returns ErrUnknownScenario if the scenario was never ingested.
	Stats(ctx context.Context, scenario string) (model.ScenarioStats, error)

	// RunsBySensitivity returns the full, unfiltered buckets of a
	// scenario, ordered by ascending numeric sensitivity key.
	RunsBySensitivity(ctx context.Context, scenario string) ([]Bucket, error)

	// Rank returns the 1-based position a score would take among the
	// existing runs of a bucket, counting from the top. Only strictly
	// greater scores push the rank down; an unseen scenario or bucket
	// ranks first. Rank never mutates the index.
	Rank(ctx context.Context, scenario, sensKey string, score float64) int

	// HighScore returns the best score across all buckets of a
	// scenario. Returns ErrUnknownScenario if the scenario is unseen.
	HighScore(ctx context.Context, scenario string) (float64, error)

	// Ingest inserts a run record, creating the scenario entry and
	// sensitivity bucket as needed and advancing the scenario stats.
	Ingest(ctx context.Context, rec model.RunRecord)

	// SensitivityView returns, per bucket, the topN highest-scoring
	// runs played on or after oldest. Buckets left empty by the
	// filters are omitted; an unknown scenario is an error.
	SensitivityView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]Bucket, error)

	// TimeView groups the qualifying runs by calendar day instead of
	// sensitivity, keeping the topN highest scores per day.
	TimeView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]DayGroup, error)

	// Scenarios returns all known scenario names, sorted.
	Scenarios(ctx context.Context) []string

	// Count returns the total number of ingested runs.
	Count(ctx context.Context) int
}
