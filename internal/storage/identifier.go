package storage

import (
	"encoding/base64"
	"fmt"
)

// URLIdentifier returns the directory name that holds the scan runs of rawURL.
//
// The mapping is purely syntactic: the URL is not parsed, lower-cased or
// stripped of a trailing slash, so "https://a.com" and "https://a.com/" are
// two different targets. Standard padded base64 is used because that is what
// the scanners write.
func URLIdentifier(rawURL string) string {
	return base64.StdEncoding.EncodeToString([]byte(rawURL))
}

// DecodeIdentifier is the inverse of URLIdentifier.
func DecodeIdentifier(identifier string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(identifier)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidIdentifier, identifier, err)
	}
	return string(b), nil
}
