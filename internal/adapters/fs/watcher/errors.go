package watcher

import "errors"

// Sentinel kinds for watcher errors.
var (
	ErrWatchInit = errors.New("watcher init failed")
	ErrWatchDir  = errors.New("watch directory failed")
)
