package retry

import (
	"context"
	"time"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// OnRetry is called before each retry with the 1-based retry number, the
// error that triggered it and the delay about to be waited.
type OnRetry func(retry int, err error, delay time.Duration)

// Do runs fn until it succeeds, fails with an error that is not retryable
// (see errors.IsRetryable), or p.MaxRetries retries are used up. The last
// error is returned. A cancelled context stops the wait and returns ctx.Err().
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, onRetry ...OnRetry) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !pierrors.IsRetryable(err) || attempt >= p.MaxRetries {
			return err
		}

		delay := p.Delay(attempt + 1)
		for _, cb := range onRetry {
			cb(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
