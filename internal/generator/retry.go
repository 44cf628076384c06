package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"alcyxob/program-pipeline/internal/logger"
)

// RetryPolicy bounds RetryingGenerator. MaxAttempts <= 1 means a single attempt.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type retryingGenerator struct {
	next   ProgramGenerator
	policy RetryPolicy
	newBO  func() backoff.BackOff
	log    *logger.Logger
}

// NewRetryingGenerator wraps next with exponential backoff on service failures.
// Malformed output and context cancellation are never retried.
func NewRetryingGenerator(next ProgramGenerator, policy RetryPolicy, log *logger.Logger) ProgramGenerator {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &retryingGenerator{
		next:   next,
		policy: policy,
		newBO: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			if policy.InitialInterval > 0 {
				b.InitialInterval = policy.InitialInterval
			}
			if policy.MaxInterval > 0 {
				b.MaxInterval = policy.MaxInterval
			}
			return b
		},
		log: log.With("component", "retrying_generator"),
	}
}

func (r *retryingGenerator) Generate(ctx context.Context, in Input) (*Candidate, error) {
	attempts := 0
	var lastErr error
	op := func() (*Candidate, error) {
		attempts++
		c, err := r.next.Generate(ctx, in)
		if err == nil {
			return c, nil
		}
		lastErr = err
		if !errors.Is(err, ErrServiceFailure) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		if attempts < r.policy.MaxAttempts {
			r.log.Warn("generation attempt failed, retrying", "attempt", attempts, "max_attempts", r.policy.MaxAttempts, "error", err)
		}
		return nil, err
	}

	c, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(r.newBO()),
		backoff.WithMaxTries(uint(r.policy.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		// The context ended while waiting between attempts; keep the upstream reason.
		if lastErr != nil && ctx.Err() != nil && !errors.Is(err, lastErr) {
			return nil, fmt.Errorf("%w (after %d attempt(s): %w)", err, attempts, lastErr)
		}
		return nil, err
	}
	c.Attempts = attempts
	return c, nil
}
