package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure, such as a dropped connection or
// a 5xx from GitHub. [Retry] repeats the call only for errors of this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn at most attempts times, sleeping delay before the second
// call and twice as long before each later one. A failure that is not a
// [RetryableError] ends the loop at once. When ctx is done during a sleep,
// ctx.Err() is returned; otherwise the last failure is.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	err := fn()
	for n := 1; n < attempts && err != nil && isRetryable(err); n++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}

func isRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
