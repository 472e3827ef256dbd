package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aimdash/aimdash/internal/domain/model"
	"github.com/aimdash/aimdash/pkg/metrics"
)

// Sorted-slice-based, in-memory Store implementation.
//
// Buckets hold runs ascending by score so the top-N scan walks from
// the tail. One user's history keeps buckets small, so binary insert
// into a slice beats a tree here; swap in an order-statistics tree if
// rank queries ever need to scale.

// scenarioEntry is the per-scenario slot. Buckets map sensitivity key
// to a score-ascending run slice; key ordering is applied at read time.
type scenarioEntry struct {
	stats   model.ScenarioStats
	buckets map[string][]model.RunRecord
}

// IndexStore implements Store behind a single RWMutex. Every read
// returns copies, never aliases of the internal slices.
type IndexStore struct {
	mu        sync.RWMutex
	scenarios map[string]*scenarioEntry
	runTotal  int
}

// NewIndexStore constructs an empty scenario index.
func NewIndexStore() *IndexStore {
	s := &IndexStore{
		scenarios: make(map[string]*scenarioEntry),
	}

	metrics.UpdateIndexScenarioCount(0)
	metrics.UpdateIndexRunCount(0)

	return s
}

// IsKnown implements Store.IsKnown.
func (s *IndexStore) IsKnown(ctx context.Context, scenario string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scenarios[scenario]
	return ok
}

// Stats implements Store.Stats.
func (s *IndexStore) Stats(ctx context.Context, scenario string) (model.ScenarioStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return model.ScenarioStats{}, ErrUnknownScenario
	}
	return entry.stats, nil
}

// RunsBySensitivity implements Store.RunsBySensitivity.
func (s *IndexStore) RunsBySensitivity(ctx context.Context, scenario string) ([]Bucket, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return nil, ErrUnknownScenario
	}

	out := make([]Bucket, 0, len(entry.buckets))
	for key, runs := range entry.buckets {
		out = append(out, Bucket{Key: key, Runs: append([]model.RunRecord(nil), runs...)})
	}
	sortBucketsByKey(out)
	return out, nil
}

// Rank implements Store.Rank.
func (s *IndexStore) Rank(ctx context.Context, scenario, sensKey string, score float64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		return 1
	}
	runs, ok := entry.buckets[sensKey]
	if !ok {
		return 1
	}
	// Runs are ascending by score; everything past the first strictly
	// greater run outranks the candidate.
	i := sort.Search(len(runs), func(i int) bool { return runs[i].Score > score })
	return 1 + len(runs) - i
}

// HighScore implements Store.HighScore.
func (s *IndexStore) HighScore(ctx context.Context, scenario string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return 0, ErrUnknownScenario
	}

	best := 0.0
	first := true
	for _, runs := range entry.buckets {
		if len(runs) == 0 {
			continue
		}
		if top := runs[len(runs)-1].Score; first || top > best {
			best = top
			first = false
		}
	}
	return best, nil
}

// Ingest implements Store.Ingest.
func (s *IndexStore) Ingest(ctx context.Context, rec model.RunRecord) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	key := rec.SensitivityKey()

	s.mu.Lock()
	entry, ok := s.scenarios[rec.Scenario]
	if !ok {
		entry = &scenarioEntry{
			stats:   model.ScenarioStats{LastPlayed: rec.PlayedAt, RunCount: 1},
			buckets: map[string][]model.RunRecord{key: {rec}},
		}
		s.scenarios[rec.Scenario] = entry
	} else {
		entry.stats.RunCount++
		if rec.PlayedAt.After(entry.stats.LastPlayed) {
			entry.stats.LastPlayed = rec.PlayedAt
		}
		runs := entry.buckets[key]
		i := sort.Search(len(runs), func(i int) bool { return runs[i].Score >= rec.Score })
		runs = append(runs, model.RunRecord{})
		copy(runs[i+1:], runs[i:])
		runs[i] = rec
		entry.buckets[key] = runs
	}
	s.runTotal++
	scenarioTotal := len(s.scenarios)
	runTotal := s.runTotal
	s.mu.Unlock()

	metrics.UpdateIndexScenarioCount(scenarioTotal)
	metrics.UpdateIndexRunCount(runTotal)
	metrics.RecordIngest()
}

// SensitivityView implements Store.SensitivityView.
func (s *IndexStore) SensitivityView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]Bucket, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return nil, ErrUnknownScenario
	}

	out := make([]Bucket, 0, len(entry.buckets))
	for key, runs := range entry.buckets {
		top := topQualifying(runs, topN, oldest)
		if len(top) == 0 {
			continue
		}
		out = append(out, Bucket{Key: key, Runs: top})
	}
	sortBucketsByKey(out)
	return out, nil
}

// TimeView implements Store.TimeView.
func (s *IndexStore) TimeView(ctx context.Context, scenario string, topN int, oldest time.Time) ([]DayGroup, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scenarios[scenario]
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_scenario")
		return nil, ErrUnknownScenario
	}

	byDay := make(map[time.Time][]model.RunRecord)
	for _, runs := range entry.buckets {
		for _, rec := range runs {
			if rec.PlayedAt.Before(oldest) {
				continue
			}
			day := rec.PlayedAt.Truncate(24 * time.Hour)
			byDay[day] = append(byDay[day], rec)
		}
	}

	out := make([]DayGroup, 0, len(byDay))
	for day, runs := range byDay {
		sort.Slice(runs, func(i, j int) bool { return runs[i].Score > runs[j].Score })
		if len(runs) > topN {
			runs = runs[:topN]
		}
		out = append(out, DayGroup{Day: day, Runs: runs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// Scenarios implements Store.Scenarios.
func (s *IndexStore) Scenarios(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.scenarios))
	for name := range s.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count implements Store.Count.
func (s *IndexStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runTotal
}

// topQualifying walks a score-ascending bucket from its high end and
// keeps up to topN runs played on or after oldest. The result is
// highest score first and shares no memory with the bucket.
func topQualifying(runs []model.RunRecord, topN int, oldest time.Time) []model.RunRecord {
	if topN < 1 {
		return nil
	}
	var out []model.RunRecord
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].PlayedAt.Before(oldest) {
			continue
		}
		out = append(out, runs[i])
		if len(out) >= topN {
			break
		}
	}
	return out
}

// sortBucketsByKey orders buckets by the numeric prefix of their
// sensitivity key, so "5.0 cm/360" precedes "25.0 cm/360".
func sortBucketsByKey(buckets []Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return keyNumericPrefix(buckets[i].Key) < keyNumericPrefix(buckets[j].Key)
	})
}

func keyNumericPrefix(key string) float64 {
	head, _, _ := strings.Cut(key, " ")
	v, err := strconv.ParseFloat(head, 64)
	if err != nil {
		return 0
	}
	return v
}
