package discovery

import "errors"

// Sentinel kinds for discovery errors.
var (
	ErrScanDirectory = errors.New("scan directory failed")
)
