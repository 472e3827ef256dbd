// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load() layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// StatsDir is the directory Kovaak's writes stats files into.
	StatsDir string `koanf:"stats_dir"`

	// PlaylistDir holds optional playlist overlay JSON files.
	PlaylistDir string `koanf:"playlist_dir"`

	// SensRoundDecimalPlaces controls sensitivity rounding. Rounding
	// is part of bucket identity, so changing it re-buckets history on
	// the next restart.
	SensRoundDecimalPlaces int `koanf:"sens_round_decimal_places"`

	// DebounceMS delays reading a newly created file so the game can
	// finish writing it.
	DebounceMS int `koanf:"debounce_ms"`

	// QueueSize bounds the in-memory notification queue.
	QueueSize int `koanf:"queue_size"`

	// DefaultTopN and MaxTopN bound the per-bucket top-N views.
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// ScoreThresholdRatio sets the "close enough to the high score"
	// telemetry threshold, as a fraction of the scenario high score.
	ScoreThresholdRatio float64 `koanf:"score_threshold_ratio"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		StatsDir:               "stats",
		PlaylistDir:            "resources/playlists",
		SensRoundDecimalPlaces: 2,
		DebounceMS:             1000,
		QueueSize:              1024,
		DefaultTopN:            5,
		MaxTopN:                100,
		ScoreThresholdRatio:    0.95,
	}
}
