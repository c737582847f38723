package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultResultsDir is the directory the scanners write to, relative to
	// the working directory.
	DefaultResultsDir = "results"

	// DefaultConcurrency is the number of URLs reported on at once.
	// Each URL reads about a dozen small files, so the limit mostly bounds
	// open file descriptors.
	DefaultConcurrency = 10

	// DefaultScreenshotFile is the screenshot name the scanners use.
	DefaultScreenshotFile = "screenshot.jpeg"

	// AppName is the application name used for XDG directory paths.
	AppName = "urlreport"
)

// Config holds all configuration options for urlreport.
// It is populated from CLI flags and the configuration file and passed
// explicitly to the commands that need it.
type Config struct {
	// ResultsDir is the root directory holding one directory per scanned URL.
	ResultsDir string

	// ScreenshotFile is the file name looked up in a run for the screenshot.
	ScreenshotFile string

	// Concurrency is the number of URLs processed at once.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path given with --config, empty when searching
	// the default locations.
	ConfigFilePath string

	// File is the loaded configuration file, never nil.
	File *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// RawJSON writes the bare report object instead of the JSON envelope.
	// It implies JSONReport.
	RawJSON bool

	// Tee also prints the one-line summary of each URL to stdout when
	// ReportFile is set.
	Tee bool

	// ReportFile is the output file path. Stdout is used when empty.
	ReportFile string

	// SaveToDB stores every generated report in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/urlreport on Linux).
	DBDir string

	// URLs is the list of URLs to report on.
	URLs []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ResultsDir:     DefaultResultsDir,
		ScreenshotFile: DefaultScreenshotFile,
		Concurrency:    DefaultConcurrency,
		DBDir:          XDGDataDir(),
		File:           &File{},
	}
}

// XDGDataDir returns the XDG data directory for urlreport.
// On Linux: ~/.local/share/urlreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for urlreport.
// On Linux: ~/.config/urlreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoTarget
	}
	if c.ResultsDir == "" {
		return ErrEmptyResultsDir
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
