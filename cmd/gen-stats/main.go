package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/aimdash/aimdash/internal/statgen"
	"github.com/aimdash/aimdash/pkg/logger"
)

// Default generation parameters.
const (
	defaultFiles = 100
	defaultDays  = 30
)

func main() {
	var (
		dir       = flag.String("dir", "stats", "Output directory for generated stats files")
		files     = flag.Int("files", defaultFiles, "Number of stats files to generate")
		days      = flag.Int("days", defaultDays, "Spread timestamps over this many days")
		scenarios = flag.String("scenarios", "1w4ts,gp,pasu,popcorn", "Comma-separated scenario names")
		senses    = flag.String("senses", "2.5,3.0,4.5", "Comma-separated horizontal sensitivity values")
		scale     = flag.String("scale", "Overwatch", "Sensitivity scale name")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	sensValues, err := parseSenses(*senses)
	if err != nil {
		os.Stderr.WriteString("invalid -senses: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := &statgen.Config{
		Dir:       *dir,
		Scenarios: strings.Split(*scenarios, ","),
		Files:     *files,
		Days:      *days,
		SensScale: *scale,
		Senses:    sensValues,
	}

	if err := statgen.Generate(context.Background(), cfg); err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func parseSenses(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
