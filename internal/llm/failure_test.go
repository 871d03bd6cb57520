package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      FailureKind
		retryable bool
	}{
		{"not configured", ErrNotConfigured, KindNotConfigured, false},
		{"empty", fmt.Errorf("wrap: %w", ErrEmptyResponse), KindEmptyResponse, true},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout, true},
		{"canceled", context.Canceled, KindCanceled, false},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), KindTimeout, true},
		{"connection refused", errors.New("connection refused"), KindNetwork, true},
		{"parse", &Failure{Kind: KindParse, Err: errors.New("bad json")}, KindParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Classify("openai", tt.err)
			if f.Kind != tt.want {
				t.Errorf("Classify() kind = %s, want %s", f.Kind, tt.want)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if !errors.Is(f, tt.err) && KindOf(tt.err) == "" {
				t.Errorf("Classify() lost the cause: %v", f)
			}
		})
	}
}

func TestIsRetryable_StatusCodes(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Error("canceled should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
	if IsRetryable(&Failure{Kind: KindHTTPStatus, StatusCode: 404}) {
		t.Error("404 should not be retryable")
	}
	if !IsRetryable(&Failure{Kind: KindHTTPStatus, StatusCode: 503}) {
		t.Error("503 should be retryable")
	}
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Kind: KindHTTPStatus, Provider: "anthropic", StatusCode: 529, Err: errors.New("overloaded")}
	if got := f.Error(); got != "anthropic: http-status (status 529): overloaded" {
		t.Errorf("Error() = %q", got)
	}
	f = &Failure{Kind: KindParse, Err: errors.New("bad json")}
	if got := f.Error(); got != "llm: parse: bad json" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRetry(t *testing.T) {
	t.Run("zero retries runs once", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 0, time.Millisecond, func() error {
			calls++
			return errors.New("connection refused")
		})
		if err == nil || calls != 1 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return errors.New("connection reset")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 2, time.Millisecond, func() error {
			calls++
			return &Failure{Kind: KindHTTPStatus, StatusCode: 500, Err: errors.New("boom")}
		})
		if err == nil || calls != 3 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})

	t.Run("permanent errors stop at once", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return &Failure{Kind: KindParse, Err: errors.New("bad json")}
		})
		if KindOf(err) != KindParse || calls != 1 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})
}
