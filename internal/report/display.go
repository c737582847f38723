package report

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/urlreport/internal/artifact"
	"github.com/nao1215/urlreport/internal/model"
)

// DisplayURL returns raw with a punycode host shown in Unicode.
// Anything that does not parse is returned unchanged.
func DisplayURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := u.Hostname()
	if !strings.Contains(strings.ToLower(host), "xn--") {
		return raw
	}
	unicode, err := idna.Display.ToUnicode(host)
	if err != nil || unicode == host {
		return raw
	}
	return strings.Replace(raw, host, unicode, 1)
}

// ToolTitle returns the display name of a catalog entry.
// A Caser keeps state, so one is created per call.
func ToolTitle(e artifact.Entry) string {
	return cases.Title(language.English).String(e.Tool)
}

// statusText describes the outcome of one field.
func statusText(res artifact.Result, verbose bool) string {
	text := res.Status.String()
	if verbose && res.Reason != nil {
		text += ": " + res.Reason.Error()
	}
	return text
}

// availability returns the "available/total" counter of a summary.
func availability(s model.Summary) (int, int) {
	return len(s.Available), s.Total()
}
