package model

import "github.com/nao1215/urlreport/internal/artifact"

// Summary is a compact view of a URL report used by the text writers and
// the history database.
type Summary struct {
	// URL is the reported URL.
	URL string `json:"url"`

	// Run is the run label of the report.
	Run string `json:"run"`

	// Available lists the fields that hold a document.
	Available []artifact.Field `json:"available"`

	// Missing lists the fields whose file does not exist.
	Missing []artifact.Field `json:"missing"`

	// Invalid lists the fields whose file exists but could not be used.
	Invalid []artifact.Field `json:"invalid"`

	// Screenshot is true when the run has a screenshot.
	Screenshot bool `json:"screenshot"`
}

// Total returns the number of catalog fields covered by the summary.
func (s Summary) Total() int {
	return len(s.Available) + len(s.Missing) + len(s.Invalid)
}

// Complete reports whether every field holds a document.
func (s Summary) Complete() bool {
	return len(s.Missing) == 0 && len(s.Invalid) == 0
}
