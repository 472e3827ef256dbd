package parse

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithSensDecimals sets how many decimal places the horizontal
// sensitivity is rounded to. Rounding collapses near-duplicate
// floating sensitivities into one bucket, so this setting is part of
// bucket identity.
func WithSensDecimals(places int) Option {
	return func(e *Extractor) {
		if places >= 0 {
			e.sensDecimals = places
		}
	}
}
