package playlist

import "errors"

// Sentinel kinds for playlist errors.
var (
	ErrReadPlaylists = errors.New("read playlist directory failed")
)
