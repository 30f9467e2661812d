package jobs

import (
	"errors"
	"fmt"
)

// ErrNoSourceAvailable is returned when a search is attempted with zero
// configured sources. It is the only aggregator-level failure surfaced to the
// caller; anything else degrades the response instead.
var ErrNoSourceAvailable = errors.New("no job search source is available")

// ErrorKind classifies a source failure so the presentation layer can map it
// to user-facing guidance.
type ErrorKind string

const (
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindTransport      ErrorKind = "transport"
	ErrorKindRateLimit      ErrorKind = "rate_limit"
	ErrorKindGeneric        ErrorKind = "generic"
)

// SourceError is a failure scoped to one source. A SourceError never aborts
// sibling sources in the same search.
type SourceError struct {
	Source Source
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err as a failure of the given kind on the given source.
func NewSourceError(source Source, kind ErrorKind, err error) *SourceError {
	if kind == "" {
		kind = ErrorKindGeneric
	}
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// KindOf extracts the error kind from err, defaulting to generic.
func KindOf(err error) ErrorKind {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind
	}
	return ErrorKindGeneric
}
