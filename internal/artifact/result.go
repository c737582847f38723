package artifact

import (
	"encoding/json"
	"errors"
)

// Status tells how a report file was resolved.
type Status int

const (
	// StatusAbsent means the file does not exist in the run.
	StatusAbsent Status = iota
	// StatusFound means the file was read and has the expected shape.
	StatusFound
	// StatusEmpty means an array-shaped file holds no element.
	StatusEmpty
	// StatusMalformed means the file exists but is unreadable, is not JSON
	// or has the wrong shape.
	StatusMalformed
)

// String returns a lower-case name for logs and text output.
func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusFound:
		return "found"
	case StatusEmpty:
		return "empty"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Decode errors carried in Result.Reason.
var (
	// ErrInvalidJSON is the reason of a file that is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrWrongShape is the reason of a file whose top-level value is not the
	// shape declared in the catalog.
	ErrWrongShape = errors.New("unexpected JSON shape")

	// ErrEmptyArray is the reason of an array-shaped file with no element.
	ErrEmptyArray = errors.New("empty array")
)

// Result is the outcome of loading one report file.
// Only a StatusFound result carries a Value.
type Result struct {
	// Status is the variant of the result.
	Status Status

	// Value is the compacted JSON document when Status is StatusFound.
	Value json.RawMessage

	// Reason explains a StatusEmpty or StatusMalformed result.
	Reason error
}

// Found wraps a decoded document.
func Found(value json.RawMessage) Result {
	return Result{Status: StatusFound, Value: value}
}

// Absent is the result of a missing file.
func Absent() Result {
	return Result{Status: StatusAbsent}
}

// Empty is the result of an array-shaped file with no element.
func Empty() Result {
	return Result{Status: StatusEmpty, Reason: ErrEmptyArray}
}

// Malformed is the result of a file that could not be used.
func Malformed(reason error) Result {
	return Result{Status: StatusMalformed, Reason: reason}
}

// OK reports whether the result holds a document.
func (r Result) OK() bool {
	return r.Status == StatusFound
}

// MarshalJSON renders the document, or null for every other status.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Status != StatusFound || len(r.Value) == 0 {
		return []byte("null"), nil
	}
	return r.Value, nil
}

// UnmarshalJSON reads a value written by MarshalJSON. null becomes an
// absent result since the original reason is not serialized.
func (r *Result) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Absent()
		return nil
	}
	*r = Found(append(json.RawMessage(nil), data...))
	return nil
}
