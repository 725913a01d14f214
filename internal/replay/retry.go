package replay

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withRetry runs fn until it succeeds or maxRetries retries have failed,
// doubling the delay after each failure. onRetry, if set, is called before
// each wait.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, onRetry func(error), fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	exp := backoff.NewExponentialBackOff()
	if baseDelay > 0 {
		exp.InitialInterval = baseDelay
	}
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)
	return backoff.RetryNotify(func() error {
		return fn(ctx)
	}, policy, func(err error, _ time.Duration) {
		if onRetry != nil {
			onRetry(err)
		}
	})
}
