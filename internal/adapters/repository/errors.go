package repository

import "errors"

// Sentinel kinds for index errors.
var (
	// ErrUnknownScenario marks a lookup for a scenario that was never
	// ingested. Callers are expected to gate lookups with IsKnown, so
	// hitting this usually indicates caller misuse.
	ErrUnknownScenario = errors.New("unknown scenario")
)
