// Package statgen produces synthetic stats files for local testing.
package statgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aimdash/aimdash/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	filePermission     = 0600
)

// Score and sensitivity generation ranges.
const (
	baseScoreMin     = 200.0
	baseScoreRange   = 800.0
	scoreJitterRange = 0.4
	accuracyMin      = 0.3
	accuracyRange    = 0.65
	shotsMin         = 40
	shotsRange       = 120
)

const timestampLayout = "2006.01.02-15.04.05"

const subTableHeader = "Weapon,Shots,Hits,Damage Done,Damage Possible,,Sens Scale,Horiz Sens,Vert Sens,FOV,Hide Gun,Crosshair,Crosshair Scale,Crosshair Color,ADS Sens,ADS Zoom Scale,Avg Target Scale,Avg Time Dilation"

// Config holds the generation parameters.
type Config struct {
	Dir       string
	Scenarios []string
	Files     int
	Days      int
	SensScale string
	Senses    []float64
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random element of items.
func pick[T any](items []T) T {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	return items[n.Int64()]
}

// Generate writes cfg.Files synthetic stats files into cfg.Dir. Each
// scenario gets a stable base score so ranks look plausible across
// runs of the same scenario.
func Generate(ctx context.Context, cfg *Config) error {
	log := logger.Named("statgen")

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	baseScores := make(map[string]float64, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		baseScores[s] = baseScoreMin + getRandomFloat()*baseScoreRange
	}

	now := time.Now()
	for i := 0; i < cfg.Files; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		scenario := pick(cfg.Scenarios)
		sens := pick(cfg.Senses)

		// Spread timestamps over the configured day window, newest last.
		offset := time.Duration(getRandomFloat()*float64(cfg.Days)*24) * time.Hour
		playedAt := now.Add(-offset).Add(time.Duration(i) * time.Second)

		score := baseScores[scenario] * (1 - scoreJitterRange/2 + getRandomFloat()*scoreJitterRange)
		shots := shotsMin + int(getRandomFloat()*shotsRange)
		hits := int(float64(shots) * (accuracyMin + getRandomFloat()*accuracyRange))

		name := fmt.Sprintf("%s - Challenge - %s Stats.csv", scenario, playedAt.Format(timestampLayout))
		body := renderStats(scenario, cfg.SensScale, sens, score, shots, hits)

		path := filepath.Join(cfg.Dir, name)
		if err := os.WriteFile(path, []byte(body), filePermission); err != nil {
			return fmt.Errorf("write stats file: %w", err)
		}
	}

	log.Info(ctx, "stats files generated",
		logger.Int("files", cfg.Files),
		logger.Int("scenarios", len(cfg.Scenarios)),
		logger.String("dir", cfg.Dir),
	)
	return nil
}

// renderStats builds one stats file body in the layout the extractor
// expects: labeled fields followed by the per-weapon sub-table.
func renderStats(scenario, scale string, sens, score float64, shots, hits int) string {
	sensStr := strconv.FormatFloat(sens, 'f', -1, 64)
	return "Score:," + strconv.FormatFloat(score, 'f', 2, 64) + "\n" +
		"Sens Scale:," + scale + "\n" +
		"Horiz Sens:," + sensStr + "\n" +
		"Scenario:," + scenario + "\n" +
		subTableHeader + "\n" +
		"Rifle," + strconv.Itoa(shots) + "," + strconv.Itoa(hits) + ",0,0,," +
		scale + "," + sensStr + ",0,103,0,0,1,#ffffff,0,0,1,1\n"
}
