package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Outcome is the classification of a single upstream attempt.
type Outcome int

const (
	// OutcomeSuccess means the attempt produced a result.
	OutcomeSuccess Outcome = iota

	// OutcomeTransient means the attempt was rate limited and may be retried.
	OutcomeTransient

	// OutcomePermanent means the attempt failed and must not be retried.
	OutcomePermanent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransient:
		return "transient"
	default:
		return "permanent"
	}
}

// Classify returns the outcome of an attempt that finished with err.
// Only rate limiting is transient.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrRateLimited):
		return OutcomeTransient
	default:
		return OutcomePermanent
	}
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// linearBackOff yields step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() {
	b.n = 0
}

// newBackOff returns the retry schedule for a single call.
func (c *Client) newBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(
		&linearBackOff{step: c.config.RetryDelay},
		uint64(c.config.MaxRetries),
	)
}

// Execute runs fn against upstream, retrying while it is rate limited.
//
// fn is invoked once; a transient outcome is retried after RetryDelay *
// attempt until MaxRetries retries have been made, after which the last
// rate-limit error is returned unchanged. Permanent failures are returned
// immediately. If ctx is done while waiting, the wait is abandoned and an
// error wrapping ctx.Err() is returned.
func Execute[T any](
	ctx context.Context,
	c *Client,
	op string,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T

	// Keep one request ID across every attempt of this call.
	ctx = WithRequestID(ctx, RequestIDFromContext(ctx))

	b := c.newBackOff()
	for attempt := 1; ; attempt++ {
		start := time.Now()
		result, err := fn(ctx)
		outcome := Classify(err)
		c.observer.ObserveAttempt(op, outcome, time.Since(start))

		switch outcome {
		case OutcomeSuccess:
			return result, nil
		case OutcomePermanent:
			return zero, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			c.logger.Error("rate limited, retries exhausted",
				"operation", op,
				"attempts", attempt,
			)
			return zero, err
		}

		c.logger.Warn("rate limited, retrying",
			"operation", op,
			"attempt", attempt,
			"max_retries", c.config.MaxRetries,
			"delay", delay,
		)
		c.observer.ObserveRetry(op)

		if err := c.sleep(ctx, delay); err != nil {
			return zero, &Error{Op: op, Err: err, Msg: "retry interrupted"}
		}
	}
}
