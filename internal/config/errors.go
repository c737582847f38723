package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrNoTarget is returned when no URL is given on the command line and
	// --all was not used with a configuration file listing URLs.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --all with a configuration file")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyResultsDir is returned when the results directory is empty.
	ErrEmptyResultsDir = errors.New("results directory must not be empty")

	// ErrEmptyURL is returned when the configuration file lists an entry
	// without a URL.
	ErrEmptyURL = errors.New("configuration file lists an entry without url")
)
