package storage

import "errors"

// Storage errors.
//
// Only failures at the results root (or while listing a directory that was
// just confirmed to exist) are reported as errors. A URL that was never
// scanned is not an error.
var (
	// ErrRootUnreachable is returned when the results root cannot be stat'ed
	// or is not a directory. Callers should treat it as an operational failure.
	ErrRootUnreachable = errors.New("results root unreachable")

	// ErrInvalidIdentifier is returned when a directory name under the results
	// root is not a valid URL identifier.
	ErrInvalidIdentifier = errors.New("invalid url identifier")
)
