// Package retry re-runs idempotent operations that failed with a transient store error.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
)

// Policy bounds the retries of one call.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy allows three attempts starting at 50ms.
var DefaultPolicy = Policy{MaxAttempts: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// Do runs fn until it succeeds, fails with a non-transient error, or the attempts
// are used up. Only apperr.TransientIO is retried; the last error is returned as is.
func Do[T any](ctx context.Context, p Policy, log *zap.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	operation := func() (T, error) {
		v, err := fn(ctx)
		if err != nil && !apperr.Is(err, apperr.TransientIO) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	notify := func(err error, wait time.Duration) {
		if log != nil {
			log.Warn("retrying transient failure", zap.String("op", op), zap.Duration("wait", wait), zap.Error(err))
		}
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(notify),
	)
}
