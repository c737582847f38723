package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/urlreport/internal/artifact"
	"github.com/nao1215/urlreport/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing, using GitHub-flavored alerts and tables.
type MarkdownWriter struct {
	baseWriter

	// verbose adds the reason of unusable report files.
	verbose bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTitles sets the function used to title each report.
func WithMarkdownTitles(fn TitleFunc) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = fn
	}
}

// WithMarkdownVerbose adds the reason of unusable report files.
func WithMarkdownVerbose(verbose bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.verbose = verbose
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.URLReport) (int, error) {
	if report == nil {
		return 0, nil
	}

	md := markdown.NewMarkdown(w.output)
	summary := report.Summary()

	w.writeHeader(md, report, summary)
	w.writeAlert(md, summary)
	w.writeReports(md, report)
	w.writeChart(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteNotScanned outputs a short section for a URL without scan run.
func (w *MarkdownWriter) WriteNotScanned(url string) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(w.titleOf(url))
	md.PlainText("")
	md.Note("`" + DisplayURL(url) + "` has not been scanned yet.")
	md.PlainText("")
	return len(md.String()), md.Build()
}

// writeHeader writes the report title and the run table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.URLReport, summary model.Summary) {
	available, total := availability(summary)

	md.H1(w.titleOf(report.URL))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", DisplayURL(report.URL)},
			{"Identifier", "`" + report.Identifier + "`"},
			{"Run", "`" + report.Run + "`"},
			{"Screenshot", screenshotText(report.Screenshot)},
			{"Reports", strconv.Itoa(available) + "/" + strconv.Itoa(total)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the completeness of the run.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary model.Summary) {
	switch {
	case summary.Complete():
		md.Tip("Every report of the run is available.")
	case len(summary.Invalid) > 0:
		md.Warningf("%d report file(s) could not be used: %s.",
			len(summary.Invalid), joinFields(summary.Invalid))
	case len(summary.Available) == 0:
		md.Importantf("The run holds none of the %d expected reports.", summary.Total())
	default:
		md.Note("Missing reports: " + joinFields(summary.Missing) + ".")
	}
	md.PlainText("")
}

// writeReports writes the table of catalog fields.
func (w *MarkdownWriter) writeReports(md *markdown.Markdown, report *model.URLReport) {
	md.H2("Reports")
	md.PlainText("")

	catalog := artifact.Catalog()
	rows := make([][]string, 0, len(catalog))
	for _, e := range catalog {
		res := report.Get(e.Field)
		rows = append(rows, []string{
			"`" + string(e.Field) + "`",
			ToolTitle(e),
			e.Filename,
			statusEmoji(res.Status) + " " + statusText(res, w.verbose),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Tool", "File", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeChart writes a mermaid pie chart of the field outcomes.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, summary model.Summary) {
	if summary.Total() == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Report Availability"),
		piechart.WithShowData(true),
	)
	if n := len(summary.Available); n > 0 {
		chart.LabelAndIntValue("Available", uint64(n))
	}
	if n := len(summary.Missing); n > 0 {
		chart.LabelAndIntValue("Missing", uint64(n))
	}
	if n := len(summary.Invalid); n > 0 {
		chart.LabelAndIntValue("Unusable", uint64(n))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by urlreport*")
}

// statusEmoji returns the Markdown marker of a field status.
func statusEmoji(status artifact.Status) string {
	switch status {
	case artifact.StatusFound:
		return "✅"
	case artifact.StatusAbsent:
		return "➖"
	default:
		return "⚠️"
	}
}

func screenshotText(ok bool) string {
	if ok {
		return "✅ present"
	}
	return "➖ none"
}

func joinFields(fields []artifact.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
