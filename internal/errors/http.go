package errors

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// ErrNotFound is wrapped by every 404 so callers can use errors.Is.
var ErrNotFound = fmt.Errorf("not found")

// errorBody is the envelope the search engine returns on failure. Older
// versions send "error" as a plain string.
type errorBody struct {
	Error  jsoniter.RawMessage `json:"error"`
	Status int                 `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ClassifyHTTPError determines whether an HTTP error should be retried:
// 408, 429 and 5xx are recoverable, every other 4xx is not.
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-2xx response and fills in
// the server's error type and reason when the body carries them.
func NewHTTPError(statusCode int, body []byte, operation string) *ClassifiedError {
	var underlying error
	if statusCode == http.StatusNotFound {
		underlying = fmt.Errorf("%s failed: HTTP %d: %w", operation, statusCode, ErrNotFound)
	} else {
		underlying = fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	}
	ce := ClassifyHTTPError(statusCode, string(body), underlying)
	ce.Type, ce.Reason = parseErrorBody(body)
	return ce
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

func parseErrorBody(body []byte) (typ, reason string) {
	if len(body) == 0 {
		return "", ""
	}
	var eb errorBody
	if err := jsoniter.Unmarshal(body, &eb); err != nil || len(eb.Error) == 0 {
		return "", ""
	}
	var cause errorCause
	if err := jsoniter.Unmarshal(eb.Error, &cause); err == nil {
		return cause.Type, cause.Reason
	}
	var msg string
	if err := jsoniter.Unmarshal(eb.Error, &msg); err == nil {
		return "", msg
	}
	return "", ""
}
