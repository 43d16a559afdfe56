package httputil

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request made through [NewClient].
const DefaultTimeout = 30 * time.Second

// NewClient creates an HTTP client with the given timeout.
// A non-positive timeout selects [DefaultTimeout].
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// StatusError reports an unexpected HTTP response status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// CheckStatus returns nil for 2xx codes. Server errors come back wrapped in
// [RetryableError]; everything else is a plain [*StatusError].
func CheckStatus(code int, body string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return &RetryableError{Err: &StatusError{StatusCode: code, Body: body}}
	default:
		return &StatusError{StatusCode: code, Body: body}
	}
}
