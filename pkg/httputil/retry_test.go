package httputil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", nil, 3, 1, false},
		{"recovers", []error{transient, transient}, 3, 3, false},
		{"exhausted", []error{transient, transient, transient}, 3, 3, true},
		{"permanent stops", []error{permanent, transient}, 3, 1, true},
		{"zero attempts runs once", []error{transient}, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("boom")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		retryable bool
	}{
		{http.StatusOK, false, false},
		{http.StatusNoContent, false, false},
		{http.StatusNotFound, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusBadGateway, true, true},
		{http.StatusServiceUnavailable, true, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := CheckStatus(tt.code, "body")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckStatus(%d) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if got := isRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
			var se *StatusError
			if err != nil && (!errors.As(err, &se) || se.StatusCode != tt.code) {
				t.Errorf("CheckStatus(%d) did not carry a StatusError", tt.code)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	if got := NewClient(0).Timeout; got != DefaultTimeout {
		t.Errorf("NewClient(0).Timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := NewClient(time.Second).Timeout; got != time.Second {
		t.Errorf("NewClient(1s).Timeout = %v, want 1s", got)
	}
}
