// Package httputil provides HTTP helpers shared by the remote tree sources
// and the API server.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError]. Wrap
// transient failures with that type and leave permanent ones bare:
//
//   - Network errors
//   - 5xx server errors
//
// Delays double after each failed attempt. The GitHub source drives its
// requests this way:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return c.do(ctx, path, v)
//	})
//
// [CheckStatus] classifies a response status code the same way, so callers
// can return its result straight out of the retried function.
//
// # Defaults
//
// The GitHub source makes 3 attempts starting from a 1 second delay.
// [NewClient] falls back to a 30 second timeout.
package httputil
