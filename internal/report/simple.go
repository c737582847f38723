package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/urlreport/internal/artifact"
	"github.com/nao1215/urlreport/internal/model"
)

// ruleWidth is the width of the separator lines of the text report.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the reason of unusable report files.
	verbose bool

	// compact prints a single summary line per URL.
	compact bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithCompact prints one line per URL instead of the full report.
func WithCompact(compact bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.compact = compact
	}
}

// WithTitles sets the function used to title each report.
func WithTitles(fn TitleFunc) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.title = fn
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.URLReport) (int, error) {
	if report == nil {
		return 0, nil
	}

	var sb strings.Builder
	if w.compact {
		w.writeLine(&sb, report)
		return io.WriteString(w.output, sb.String())
	}

	w.writeHeader(&sb, report)
	w.writeReports(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteNotScanned outputs a one-line notice for a URL without scan run.
func (w *SimpleWriter) WriteNotScanned(url string) (int, error) {
	return fmt.Fprintf(w.output, "%s: not scanned yet\n", DisplayURL(url))
}

// writeLine writes the compact form of the report.
func (w *SimpleWriter) writeLine(sb *strings.Builder, report *model.URLReport) {
	available, total := availability(report.Summary())
	screenshot := "no screenshot"
	if report.Screenshot {
		screenshot = "screenshot"
	}
	fmt.Fprintf(sb, "%s: run %s, %d/%d reports, %s\n",
		DisplayURL(report.URL), report.Run, available, total, screenshot)
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.URLReport) {
	summary := report.Summary()
	available, total := availability(summary)

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s\n", w.titleOf(report.URL))
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:         %s\n", DisplayURL(report.URL))
	fmt.Fprintf(sb, "Identifier:  %s\n", report.Identifier)
	fmt.Fprintf(sb, "Run:         %s\n", report.Run)
	fmt.Fprintf(sb, "Screenshot:  %s\n", yesNo(report.Screenshot))
	fmt.Fprintf(sb, "Reports:     %d/%d available", available, total)
	if n := len(summary.Invalid); n > 0 {
		fmt.Fprintf(sb, ", %d unusable", n)
	}
	sb.WriteString("\n\n")
}

// writeReports writes one line per catalog field.
func (w *SimpleWriter) writeReports(sb *strings.Builder, report *model.URLReport) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("REPORTS\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")

	for _, e := range artifact.Catalog() {
		res := report.Get(e.Field)
		fmt.Fprintf(sb, "  [%s] %-17s %-22s %s\n",
			statusIndicator(res.Status), e.Field, ToolTitle(e), statusText(res, w.verbose))
	}
	sb.WriteString("\n")
}

// statusIndicator returns a visual indicator for a field status.
func statusIndicator(status artifact.Status) string {
	switch status {
	case artifact.StatusFound:
		return "+"
	case artifact.StatusAbsent:
		return " "
	case artifact.StatusEmpty:
		return "-"
	case artifact.StatusMalformed:
		return "!"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
