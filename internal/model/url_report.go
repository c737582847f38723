package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/urlreport/internal/artifact"
)

// screenshotKey is the JSON key of the screenshot flag. It is not a catalog
// field because it is never loaded, only detected.
const screenshotKey = "screenshot"

// URLReport is the merged view of the latest scan run of one URL.
//
// Its JSON form is a flat object with one key per catalog field, holding the
// report document or null, and a boolean "screenshot" key. Every catalog key
// is always present so consumers never have to test for a missing key.
// URL, Identifier and Run are metadata and are not part of that object.
type URLReport struct {
	// URL is the URL as given by the caller.
	URL string

	// Identifier is the directory name of the URL under the results root.
	Identifier string

	// Run is the label of the run the report was built from.
	Run string

	// Artifacts holds the load result of every catalog field.
	Artifacts artifact.Results

	// Screenshot is true when the run contains a screenshot.
	Screenshot bool
}

// NewURLReport creates a report with every catalog field absent.
func NewURLReport(url, identifier, run string) *URLReport {
	results := make(artifact.Results, len(artifact.Fields()))
	for _, f := range artifact.Fields() {
		results[f] = artifact.Absent()
	}
	return &URLReport{
		URL:        url,
		Identifier: identifier,
		Run:        run,
		Artifacts:  results,
	}
}

// Get returns the result of a field.
func (r *URLReport) Get(field artifact.Field) artifact.Result {
	return r.Artifacts.Get(field)
}

// Set stores the result of a field.
func (r *URLReport) Set(field artifact.Field, res artifact.Result) {
	if r.Artifacts == nil {
		r.Artifacts = make(artifact.Results)
	}
	r.Artifacts[field] = res
}

// MarshalJSON renders the flat report object.
func (r *URLReport) MarshalJSON() ([]byte, error) {
	fields := artifact.Fields()
	out := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		out[string(f)] = r.Get(f)
	}
	out[screenshotKey] = r.Screenshot
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat report object. Metadata is left untouched.
// Unknown keys are ignored and missing catalog keys become absent.
func (r *URLReport) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	results := make(artifact.Results, len(artifact.Fields()))
	for _, f := range artifact.Fields() {
		res := artifact.Absent()
		if v, ok := raw[string(f)]; ok {
			if err := json.Unmarshal(v, &res); err != nil {
				return fmt.Errorf("failed to parse %s: %w", f, err)
			}
		}
		results[f] = res
	}

	screenshot := false
	if v, ok := raw[screenshotKey]; ok {
		if err := json.Unmarshal(v, &screenshot); err != nil {
			return fmt.Errorf("failed to parse %s: %w", screenshotKey, err)
		}
	}

	r.Artifacts = results
	r.Screenshot = screenshot
	return nil
}

// Digest returns the hex SHA3-256 of the JSON form. Two reports with the
// same content have the same digest whatever run they came from.
func (r *URLReport) Digest() (string, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Summary counts the fields of the report by outcome.
func (r *URLReport) Summary() Summary {
	s := Summary{
		URL:        r.URL,
		Run:        r.Run,
		Screenshot: r.Screenshot,
	}
	for _, f := range artifact.Fields() {
		switch r.Get(f).Status {
		case artifact.StatusFound:
			s.Available = append(s.Available, f)
		case artifact.StatusAbsent:
			s.Missing = append(s.Missing, f)
		default:
			s.Invalid = append(s.Invalid, f)
		}
	}
	return s
}
