package report

import (
	"io"

	"github.com/nao1215/urlreport/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.URLReport) (int, error)

	// WriteNotScanned outputs the placeholder of a URL without scan run.
	WriteNotScanned(url string) (int, error)
}

// TitleFunc returns the human title of a URL.
type TitleFunc func(url string) string

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.URLReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteNotScanned outputs the placeholder to all configured Writers.
func (m *MultiWriter) WriteNotScanned(url string) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteNotScanned(url)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	title  TitleFunc
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// titleOf returns the configured title of url, or its display form.
func (b baseWriter) titleOf(url string) string {
	if b.title != nil {
		if t := b.title(url); t != "" && t != url {
			return t
		}
	}
	return DisplayURL(url)
}
