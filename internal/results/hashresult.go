package results

import (
	"fmt"
	"strings"
)

// ErrorPrefix starts the string form of an ErrorMarker.
const ErrorPrefix = "ERROR: "

// ErrorMarker records that a test graph could not be serialized.
type ErrorMarker struct {
	Kind    string
	Message string
}

// String returns "ERROR: <kind>: <message>".
func (m ErrorMarker) String() string {
	if m.Message == "" {
		return ErrorPrefix + m.Kind
	}
	return fmt.Sprintf("%s%s: %s", ErrorPrefix, m.Kind, m.Message)
}

// HashResult is the outcome of one serialize-and-hash: either a hex digest
// or an ErrorMarker, never both.
type HashResult struct {
	digest string
	marker *ErrorMarker

	// raw is the marker text a parsed result was read from.
	raw string
}

// Digest returns a successful HashResult.
func Digest(hex string) HashResult {
	return HashResult{digest: hex}
}

// Failed returns a HashResult carrying an ErrorMarker.
func Failed(kind, message string) HashResult {
	return HashResult{marker: &ErrorMarker{Kind: kind, Message: message}}
}

// ParseHashResult decodes the string form of a HashResult. Strings that
// start with ErrorPrefix are markers; everything else is a digest.
//
// The marker's kind runs up to the first ": ". String returns s unchanged,
// even where Kind and Message alone would print differently
// (e.g. "ERROR: K: " has an empty Message).
func ParseHashResult(s string) HashResult {
	rest, ok := strings.CutPrefix(s, ErrorPrefix)
	if !ok {
		return Digest(s)
	}
	kind, msg, _ := strings.Cut(rest, ": ")
	r := Failed(kind, msg)
	r.raw = s
	return r
}

// IsError reports whether r carries an ErrorMarker.
func (r HashResult) IsError() bool {
	return r.marker != nil
}

// Digest returns the hex digest, or "" for an error result.
func (r HashResult) Digest() string {
	return r.digest
}

// Marker returns the ErrorMarker, or nil for a digest.
func (r HashResult) Marker() *ErrorMarker {
	return r.marker
}

// Equal compares exactly: digests by string, markers by their file form.
// A digest never equals a marker.
func (r HashResult) Equal(other HashResult) bool {
	if r.IsError() != other.IsError() {
		return false
	}
	return r.String() == other.String()
}

// String returns the file form of r.
func (r HashResult) String() string {
	switch {
	case r.raw != "":
		return r.raw
	case r.marker != nil:
		return r.marker.String()
	}
	return r.digest
}
