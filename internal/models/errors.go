package models

import "errors"

// Sentinel errors for query operations.
// Use errors.Is() to check for these errors in calling code. Every error
// condition is returned as a value from the call, never panicked across
// the engine boundary.
var (
	// ErrNotFound indicates a referenced entity id is absent from the snapshot.
	ErrNotFound = errors.New("entity not found")

	// ErrDimensionMismatch indicates an explicitly supplied query vector whose
	// dimension does not match the snapshot's embedding dimension. An absent
	// vector is not an error; it triggers the lexical fallback instead.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrTimeout indicates the caller's deadline expired mid-traversal.
	// No partial path is ever returned alongside it.
	ErrTimeout = errors.New("deadline exceeded")

	// ErrInvalidQuery indicates a request missing required fields, such as
	// an INTEGRATE query without both endpoint ids.
	ErrInvalidQuery = errors.New("invalid query")
)

// ErrorInfo is the stable, serializable form of an error inside a response
// envelope. Message and NextAction are fixed templates so callers can
// pattern-match deterministically.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	NextAction string `json:"next_action,omitempty"`
}

// Error codes carried in error envelopes.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeDimensionMismatch = "DIMENSION_MISMATCH"
	CodeTimeout           = "TIMEOUT"
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeInternal          = "INTERNAL"
)

// ErrorInfoFor maps an error to its envelope form with a stable message
// template and a suggested next action.
func ErrorInfoFor(err error) *ErrorInfo {
	switch {
	case errors.Is(err, ErrNotFound):
		return &ErrorInfo{
			Code:       CodeNotFound,
			Message:    "entity not found: " + detail(err, ErrNotFound),
			NextAction: "Check that the entity id exists in the current snapshot",
		}
	case errors.Is(err, ErrDimensionMismatch):
		return &ErrorInfo{
			Code:       CodeDimensionMismatch,
			Message:    "embedding dimension mismatch: " + detail(err, ErrDimensionMismatch),
			NextAction: "Supply a vector matching the snapshot embedding dimension, or omit it to use the lexical fallback",
		}
	case errors.Is(err, ErrTimeout):
		return &ErrorInfo{
			Code:       CodeTimeout,
			Message:    "deadline exceeded before the query completed",
			NextAction: "Retry with a longer deadline or a smaller hop limit",
		}
	case errors.Is(err, ErrInvalidQuery):
		return &ErrorInfo{
			Code:       CodeInvalidQuery,
			Message:    "invalid query: " + detail(err, ErrInvalidQuery),
			NextAction: "Supply the fields required by this query type",
		}
	default:
		return &ErrorInfo{
			Code:    CodeInternal,
			Message: "internal error: " + err.Error(),
		}
	}
}

// detail strips the sentinel prefix from a wrapped error, leaving the
// contextual part. Falls back to the sentinel text when nothing was added.
func detail(err, sentinel error) string {
	msg := err.Error()
	base := sentinel.Error()
	if msg == base {
		return base
	}
	// Wrapped errors read "context: sentinel text" or "sentinel text: context".
	if cut, ok := cutAffix(msg, base); ok {
		return cut
	}
	return msg
}

func cutAffix(s, affix string) (string, bool) {
	if len(s) > len(affix)+2 {
		if s[:len(affix)] == affix && s[len(affix):len(affix)+2] == ": " {
			return s[len(affix)+2:], true
		}
		if s[len(s)-len(affix):] == affix && s[len(s)-len(affix)-2:len(s)-len(affix)] == ": " {
			return s[:len(s)-len(affix)-2], true
		}
	}
	return "", false
}
