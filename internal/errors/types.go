// Package errors classifies failed search-engine calls so the dispatch layer
// and the shard executor can decide whether a request is worth retrying.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors are retried with exponential backoff.
	// Examples: 503 from an overloaded node, 429 rejected execution, connection resets.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately.
	// Examples: 400 mapper_parsing_exception, 401, 404 index_not_found_exception.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a failed request with the server's error details.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // HTTP status code (0 for network errors)
	Type       string // error.type from the response body, e.g. index_not_found_exception
	Reason     string // error.reason from the response body
	Body       string // raw response body
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Type != "":
		return fmt.Sprintf("[%s] HTTP %d %s: %s", e.Category, e.StatusCode, e.Type, e.Reason)
	case e.StatusCode > 0:
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	default:
		return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
	}
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.StatusCode
	}
	return 0
}
