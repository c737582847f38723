package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/urlreport/internal/model"
)

// JSONWriter outputs the bare report object: one key per catalog field and
// the screenshot flag. A URL without scan run is written as null.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report object in JSON format.
func (w *JSONWriter) Write(report *model.URLReport) (int, error) {
	if report == nil {
		return w.writeJSON(nil)
	}
	return w.writeJSON(report)
}

// WriteNotScanned writes null, the report of a URL without scan run.
func (w *JSONWriter) WriteNotScanned(_ string) (int, error) {
	return w.writeJSON(nil)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a report with the metadata the bare object leaves out.
type JSONReport struct {
	// Version is the urlreport version that generated this document.
	Version string `json:"version,omitempty"`

	// URL is the reported URL.
	URL string `json:"url"`

	// Identifier is the directory name of the URL under the results root.
	Identifier string `json:"identifier,omitempty"`

	// Run is the label of the run the report was built from.
	Run string `json:"run,omitempty"`

	// Digest is the SHA3-256 of the report object.
	Digest string `json:"digest,omitempty"`

	// Summary counts the fields by outcome.
	Summary *model.Summary `json:"summary,omitempty"`

	// Report is the report object, null when the URL was never scanned.
	Report *model.URLReport `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
// A nil report yields an envelope with a null report.
func NewJSONReport(url string, report *model.URLReport, version string) (*JSONReport, error) {
	wrapped := &JSONReport{
		Version: version,
		URL:     url,
	}
	if report == nil {
		return wrapped, nil
	}

	digest, err := report.Digest()
	if err != nil {
		return nil, err
	}
	summary := report.Summary()

	wrapped.URL = report.URL
	wrapped.Identifier = report.Identifier
	wrapped.Run = report.Run
	wrapped.Digest = digest
	wrapped.Summary = &summary
	wrapped.Report = report
	return wrapped, nil
}

// FullJSONWriter outputs reports wrapped with their metadata.
type FullJSONWriter struct {
	*JSONWriter

	// version is the urlreport version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.URLReport) (int, error) {
	if report == nil {
		return 0, nil
	}
	wrapped, err := NewJSONReport(report.URL, report, w.version)
	if err != nil {
		return 0, err
	}
	return w.writeJSON(wrapped)
}

// WriteNotScanned outputs an envelope with a null report.
func (w *FullJSONWriter) WriteNotScanned(url string) (int, error) {
	wrapped, err := NewJSONReport(url, nil, w.version)
	if err != nil {
		return 0, err
	}
	return w.writeJSON(wrapped)
}
