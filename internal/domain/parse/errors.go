package parse

import "errors"

// Sentinel kinds for parse failures. All are recoverable: the caller
// logs a warning and skips the file.
var (
	ErrBadFilename  = errors.New("filename does not carry a timestamp")
	ErrMissingField = errors.New("required field missing from file")
	ErrBadNumber    = errors.New("numeric field failed to convert")
	ErrReadFile     = errors.New("read file failed")
)
