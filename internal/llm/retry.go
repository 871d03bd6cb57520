package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retry runs op up to maxRetries+1 times with exponential backoff. Errors
// that IsRetryable rejects stop the loop at once. With maxRetries <= 0 op
// runs exactly once.
func retry(ctx context.Context, maxRetries int, initial time.Duration, op func() error) error {
	if maxRetries <= 0 {
		return op()
	}
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
