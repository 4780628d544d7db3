package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy bounds retries of side-effect-free steps.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	factor := p.Factor
	if factor <= 1 {
		factor = 2
	}
	d := float64(p.InitialDelay) * math.Pow(factor, float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// withRetry runs fn until it succeeds, the attempts are spent or ctx is done.
// Every attempt gets its own timeout.
func withRetry[T any](ctx context.Context, log zerolog.Logger, p RetryPolicy, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := callWithTimeout(ctx, timeout, fn)
		if err == nil {
			if attempt > 1 {
				log.Info().Str("operation", op).Int("attempt", attempt).Msg("operation succeeded after retry")
			}
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == attempts {
			break
		}

		delay := p.delay(attempt)
		log.Warn().Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("retry_delay", delay).
			Msg("retrying operation after error")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, lastErr
}

func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(cctx)
}
