package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// RetryPolicy bounds how long a lookup may take before compute starts.
type RetryPolicy struct {
	MaxTries        uint
	AttemptTimeout  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is used when a zero policy is passed to NewRetrying.
var DefaultRetryPolicy = RetryPolicy{
	MaxTries:        3,
	AttemptTimeout:  5 * time.Second,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

// Retrying decorates a Provider with bounded exponential backoff.
// ErrNotFound and ErrUnauthorized are never retried.
type Retrying struct {
	next   Provider
	policy RetryPolicy
}

func NewRetrying(next Provider, policy RetryPolicy) *Retrying {
	if policy.MaxTries == 0 {
		policy.MaxTries = DefaultRetryPolicy.MaxTries
	}
	if policy.AttemptTimeout == 0 {
		policy.AttemptTimeout = DefaultRetryPolicy.AttemptTimeout
	}
	if policy.InitialInterval == 0 {
		policy.InitialInterval = DefaultRetryPolicy.InitialInterval
	}
	if policy.MaxInterval == 0 {
		policy.MaxInterval = DefaultRetryPolicy.MaxInterval
	}
	return &Retrying{next: next, policy: policy}
}

func (r *Retrying) Get(ctx context.Context, id string) (*Context, error) {
	attempt := 0
	operation := func() (*Context, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, r.policy.AttemptTimeout)
		defer cancel()

		ws, err := r.next.Get(attemptCtx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return ws, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval

	ws, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.policy.MaxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("workspace", id).Int("attempt", attempt).Dur("wait", wait).Msg("Workspace lookup failed, retrying")
		}),
	)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnreachable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return ws, nil
}
