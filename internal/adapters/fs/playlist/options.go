package playlist

import "github.com/aimdash/aimdash/pkg/logger"

// Option applies a configuration option to the Library.
type Option func(*Library)

// WithLogger sets a custom logger for the library.
func WithLogger(l logger.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.logger = l
		}
	}
}
