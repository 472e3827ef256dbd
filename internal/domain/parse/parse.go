// Package parse extracts typed run records from Kovaak's stats files.
//
// A stats file is a semi-structured text export: a handful of labeled
// "Label:,value" lines, plus an embedded sub-table whose header is a
// fixed vendor-defined 18-column line. The run timestamp lives in the
// file name, not the file body.
package parse

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aimdash/aimdash/internal/domain/model"
)

// subTableHeader is the exact header line Kovaak's writes above the
// per-weapon sub-table. The line after it carries shots and hits.
const subTableHeader = "Weapon,Shots,Hits,Damage Done,Damage Possible,,Sens Scale,Horiz Sens,Vert Sens,FOV,Hide Gun,Crosshair,Crosshair Scale,Crosshair Color,ADS Sens,ADS Zoom Scale,Avg Target Scale,Avg Time Dilation"

// timestampLayout matches the trailing file-name segment, e.g.
// "1w4ts - Challenge - 2025.01.01-10.00.00 Stats.csv".
const timestampLayout = "2006.01.02-15.04.05"

const defaultSensDecimals = 2

// Extractor parses stats files into RunRecords. It is stateless apart
// from configuration and safe for concurrent use.
type Extractor struct {
	sensDecimals int
}

// New creates an Extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		sensDecimals: defaultSensDecimals,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses one stats file. It either returns a fully populated
// RunRecord or an error; there is no partial-record outcome. Errors
// are recoverable parse failures unless they wrap ErrReadFile.
func (e *Extractor) Extract(path string) (model.RunRecord, error) {
	playedAt, err := timestampFromFilename(path)
	if err != nil {
		return model.RunRecord{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}
	defer f.Close()

	var (
		score, horizontalSens, accuracy *float64
		sensScale, scenario             *string
		subTableNext                    bool
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == subTableHeader {
			subTableNext = true
			continue
		}
		if subTableNext {
			subTableNext = false
			acc, err := accuracyFromSubTableRow(line)
			if err != nil {
				return model.RunRecord{}, fmt.Errorf("%s: %w", path, err)
			}
			accuracy = &acc
			continue
		}

		switch {
		case strings.HasPrefix(line, "Score:"):
			v, err := floatField(line)
			if err != nil {
				return model.RunRecord{}, fmt.Errorf("%s: score: %w", path, err)
			}
			score = &v
		case strings.HasPrefix(line, "Sens Scale:"):
			v := stringField(line)
			sensScale = &v
		case strings.HasPrefix(line, "Horiz Sens:"):
			v, err := floatField(line)
			if err != nil {
				return model.RunRecord{}, fmt.Errorf("%s: horiz sens: %w", path, err)
			}
			// The tool sometimes exports noisy values like
			// 20.123456789; rounding keeps bucket keys stable.
			v = roundTo(v, e.sensDecimals)
			horizontalSens = &v
		case strings.HasPrefix(line, "Scenario:"):
			v := stringField(line)
			scenario = &v
		}
	}
	if err := scanner.Err(); err != nil {
		return model.RunRecord{}, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	switch {
	case score == nil:
		return model.RunRecord{}, fmt.Errorf("%w: score (%s)", ErrMissingField, path)
	case sensScale == nil:
		return model.RunRecord{}, fmt.Errorf("%w: sens scale (%s)", ErrMissingField, path)
	case horizontalSens == nil:
		return model.RunRecord{}, fmt.Errorf("%w: horiz sens (%s)", ErrMissingField, path)
	case scenario == nil:
		return model.RunRecord{}, fmt.Errorf("%w: scenario (%s)", ErrMissingField, path)
	case accuracy == nil:
		return model.RunRecord{}, fmt.Errorf("%w: accuracy (%s)", ErrMissingField, path)
	}

	return model.RunRecord{
		PlayedAt:       playedAt,
		Score:          *score,
		SensScale:      *sensScale,
		HorizontalSens: *horizontalSens,
		Scenario:       *scenario,
		Accuracy:       *accuracy,
	}, nil
}

// timestampFromFilename derives the run timestamp from the file's base
// name: the segment after the last " - " separator and before the
// " Stats" marker.
func timestampFromFilename(path string) (time.Time, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	head, _, found := strings.Cut(stem, " Stats")
	if !found {
		return time.Time{}, fmt.Errorf("%w: %s", ErrBadFilename, path)
	}
	segments := strings.Split(head, " - ")
	ts, err := time.Parse(timestampLayout, segments[len(segments)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrBadFilename, path)
	}
	return ts, nil
}

// accuracyFromSubTableRow reads shots and hits from the data row that
// follows the sub-table header.
func accuracyFromSubTableRow(line string) (float64, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return 0, fmt.Errorf("%w: sub-table row too short", ErrMissingField)
	}
	shots, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: shots: %w", ErrBadNumber, err)
	}
	hits, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return 0, fmt.Errorf("%w: hits: %w", ErrBadNumber, err)
	}
	if shots == 0 {
		return 0, fmt.Errorf("%w: zero shots", ErrBadNumber)
	}
	return float64(hits) / float64(shots), nil
}

// stringField returns the second comma-separated token of a
// "Label:,value" line.
func stringField(line string) string {
	fields := strings.SplitN(line, ",", 3)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}

func floatField(line string) (float64, error) {
	raw := stringField(line)
	if raw == "" {
		return 0, ErrMissingField
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBadNumber, raw, err)
	}
	return v, nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
