// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"
)

// RunRecord holds the data extracted from one Kovaak's stats file.
// A RunRecord is only ever constructed fully populated; a file that is
// missing any field yields a parse error instead of a partial record.
type RunRecord struct {
	PlayedAt       time.Time // parsed from the file name, not the file body
	Score          float64
	SensScale      string  // sensitivity unit/system, e.g. "Overwatch"
	HorizontalSens float64 // rounded to the configured decimal places
	Scenario       string
	Accuracy       float64 // hits / shots, in [0,1]
}

// SensitivityKey buckets runs that share one sensitivity setting.
// The key is "<horizontal sens> <sens scale>", e.g. "2.35 Overwatch".
// Keys order by their leading numeric value, not lexicographically.
func (r RunRecord) SensitivityKey() string {
	return FormatSensitivityKey(r.HorizontalSens, r.SensScale)
}

// FormatSensitivityKey builds the composite bucket key for a
// sensitivity value and scale name.
func FormatSensitivityKey(horizontalSens float64, sensScale string) string {
	return strconv.FormatFloat(horizontalSens, 'g', -1, 64) + " " + sensScale
}

// ScenarioStats captures aggregate statistics for one scenario.
type ScenarioStats struct {
	LastPlayed time.Time
	RunCount   int
}

// Notification announces a new rank-worthy result to the UI layer.
// Delivered at most once through the notification queue.
type Notification struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	RankAmongPeers int       `json:"rank_among_peers"` // 1-based, from the top
	ScenarioName   string    `json:"scenario_name"`
	Score          float64   `json:"score"`
	SensitivityKey string    `json:"sensitivity_key"`
}
