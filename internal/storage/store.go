package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultScreenshotFile is the name of the screenshot the scanners store in
// each run directory.
const DefaultScreenshotFile = "screenshot.jpeg"

// Store gives read-only access to a results root.
type Store struct {
	// root is the directory that contains one identifier directory per URL.
	root string

	// screenshotFile is the file name looked up by HasScreenshot.
	screenshotFile string
}

// Option configures a Store.
type Option func(*Store)

// WithScreenshotFile overrides the screenshot file name.
// Empty names are ignored.
func WithScreenshotFile(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.screenshotFile = name
		}
	}
}

// NewStore creates a Store rooted at root. The directory is not touched
// until the first lookup.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{
		root:           root,
		screenshotFile: DefaultScreenshotFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the results root directory.
func (s *Store) Root() string {
	return s.root
}

// URLDir returns the directory of an identifier.
func (s *Store) URLDir(identifier string) string {
	return filepath.Join(s.root, identifier)
}

// RunDir returns the directory of a single run.
func (s *Store) RunDir(identifier, run string) string {
	return filepath.Join(s.root, identifier, run)
}

// checkRoot fails with ErrRootUnreachable when the root is missing,
// unreadable or not a directory. The stat error is kept in the chain.
func (s *Store) checkRoot() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRootUnreachable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootUnreachable, s.root)
	}
	return nil
}

// Known maps rawURL to its identifier and reports whether the URL has a
// directory under the root. A missing directory is not an error, and neither
// is a missing root: nothing has been scanned yet.
func (s *Store) Known(rawURL string) (string, bool, error) {
	identifier := URLIdentifier(rawURL)
	if err := s.checkRoot(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return identifier, false, nil
		}
		return "", false, err
	}

	info, err := os.Stat(s.URLDir(identifier))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return identifier, false, nil
		}
		return identifier, false, fmt.Errorf("failed to stat %s: %w", s.URLDir(identifier), err)
	}
	return identifier, info.IsDir(), nil
}

// runNames lists the run directories of an identifier in directory order.
// Symlinks count as runs when they resolve to a directory.
func (s *Store) runNames(identifier string) ([]string, error) {
	dir := s.URLDir(identifier)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list runs of %s: %w", identifier, err)
	}

	runs := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDirEntry(dir, e) {
			runs = append(runs, e.Name())
		}
	}
	return runs, nil
}

// isDirEntry reports whether e is a directory, following symlinks.
// A dangling link is not a directory.
func isDirEntry(dir string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Runs returns every run label of an identifier in ascending order.
// Only directories count as runs; stray files are ignored.
func (s *Store) Runs(identifier string) ([]string, error) {
	runs, err := s.runNames(identifier)
	if err != nil {
		return nil, err
	}
	slices.Sort(runs)
	return runs, nil
}

// LatestRun returns the lexicographically greatest run label of an
// identifier. The comparison is a plain string comparison, so run labels
// must be consistently padded. ok is false when there are no runs.
func (s *Store) LatestRun(identifier string) (string, bool, error) {
	runs, err := s.runNames(identifier)
	if err != nil {
		return "", false, err
	}
	if len(runs) == 0 {
		return "", false, nil
	}
	return slices.Max(runs), true, nil
}

// HasScreenshot reports whether the screenshot file exists in the given run.
// The file content is never read.
func (s *Store) HasScreenshot(identifier, run string) bool {
	info, err := os.Stat(filepath.Join(s.RunDir(identifier, run), s.screenshotFile))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Target describes one scanned URL found under the root.
type Target struct {
	// URL is the decoded URL.
	URL string

	// Identifier is the directory name under the root.
	Identifier string

	// Runs is the number of run directories.
	Runs int

	// LatestRun is the greatest run label, empty when Runs is zero.
	LatestRun string
}

// Targets lists every URL directory under the root, sorted by URL.
// Directory names that do not decode as identifiers are returned in skipped.
func (s *Store) Targets() (targets []Target, skipped []string, err error) {
	if err := s.checkRoot(); err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRootUnreachable, err)
	}

	for _, e := range entries {
		if !isDirEntry(s.root, e) {
			continue
		}
		rawURL, err := DecodeIdentifier(e.Name())
		if err != nil {
			skipped = append(skipped, e.Name())
			continue
		}
		runs, err := s.Runs(e.Name())
		if err != nil {
			return nil, nil, err
		}
		t := Target{
			URL:        rawURL,
			Identifier: e.Name(),
			Runs:       len(runs),
		}
		if len(runs) > 0 {
			t.LatestRun = runs[len(runs)-1]
		}
		targets = append(targets, t)
	}

	slices.SortFunc(targets, func(a, b Target) int {
		return strings.Compare(a.URL, b.URL)
	})
	return targets, skipped, nil
}
