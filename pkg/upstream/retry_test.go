package upstream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type countingObserver struct {
	mu       sync.Mutex
	attempts map[Outcome]int
	retries  int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{attempts: map[Outcome]int{}}
}

func (o *countingObserver) ObserveAttempt(_ string, outcome Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts[outcome]++
}

func (o *countingObserver) ObserveRetry(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries++
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	c, err := NewClient(cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		expect Outcome
	}{
		{nil, OutcomeSuccess},
		{&Error{Op: "FetchAll", Err: ErrRateLimited}, OutcomeTransient},
		{&Error{Op: "FetchAll", Err: ErrNotFound}, OutcomePermanent},
		{&Error{Op: "FetchAll", Err: ErrMalformed}, OutcomePermanent},
		{&Error{Op: "FetchAll", Err: ErrUnavailable}, OutcomePermanent},
		{&Error{Op: "FetchAll", Err: ErrUnexpectedStatus, StatusCode: 503}, OutcomePermanent},
		{context.Canceled, OutcomePermanent},
		{errors.New("connection reset by peer"), OutcomePermanent},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.expect {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "transient", OutcomeTransient.String())
	assert.Equal(t, "permanent", OutcomePermanent.String())
}

func TestLinearBackOff_Schedule(t *testing.T) {
	b := backoff.WithMaxRetries(&linearBackOff{step: time.Second}, 3)

	assert.Equal(t, 1*time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 3*time.Second, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff())

	b.Reset()
	assert.Equal(t, 1*time.Second, b.NextBackOff())
}

func TestExecute(t *testing.T) {
	rateLimited := &Error{Op: "Test", Err: ErrRateLimited, StatusCode: 429}

	t.Run("success on first attempt does not wait", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		c := newTestClient(t, DefaultBaseURL, WithSleeper(sleeper.Sleep))

		calls := 0
		got, err := Execute(context.Background(), c, "Test", func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeper.Delays())
	})

	t.Run("rate limited then success retries once", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		observer := newCountingObserver()
		c := newTestClient(t, DefaultBaseURL, WithSleeper(sleeper.Sleep), WithObserver(observer))

		calls := 0
		got, err := Execute(context.Background(), c, "Test", func(context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, rateLimited
			}
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []time.Duration{time.Second}, sleeper.Delays())
		assert.Equal(t, 1, observer.attempts[OutcomeTransient])
		assert.Equal(t, 1, observer.attempts[OutcomeSuccess])
		assert.Equal(t, 1, observer.retries)
	})

	t.Run("exhausted retries return the rate limit error", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		c := newTestClient(t, DefaultBaseURL, WithSleeper(sleeper.Sleep))

		calls := 0
		_, err := Execute(context.Background(), c, "Test", func(context.Context) (int, error) {
			calls++
			return 0, rateLimited
		})

		require.Error(t, err)
		assert.Same(t, rateLimited, err)
		assert.Equal(t, 4, calls)
		assert.Equal(t,
			[]time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second},
			sleeper.Delays())
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		c := newTestClient(t, DefaultBaseURL, WithSleeper(sleeper.Sleep))

		notFound := &Error{Op: "Test", Err: ErrNotFound, StatusCode: 404}
		calls := 0
		_, err := Execute(context.Background(), c, "Test", func(context.Context) (int, error) {
			calls++
			return 0, notFound
		})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeper.Delays())
	})

	t.Run("zero max retries disables retry", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		cfg := DefaultConfig()
		cfg.MaxRetries = 0
		c, err := NewClient(cfg, WithSleeper(sleeper.Sleep))
		require.NoError(t, err)

		calls := 0
		_, err = Execute(context.Background(), c, "Test", func(context.Context) (int, error) {
			calls++
			return 0, rateLimited
		})

		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeper.Delays())
	})

	t.Run("cancellation during wait aborts the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := newTestClient(t, DefaultBaseURL, WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return sleepContext(ctx, d)
		}))

		calls := 0
		_, err := Execute(ctx, c, "Test", func(context.Context) (int, error) {
			calls++
			return 0, rateLimited
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 1, calls)
	})

	t.Run("request ID is stable across attempts", func(t *testing.T) {
		sleeper := &recordingSleeper{}
		c := newTestClient(t, DefaultBaseURL, WithSleeper(sleeper.Sleep))

		var ids []string
		_, err := Execute(context.Background(), c, "Test", func(ctx context.Context) (int, error) {
			ids = append(ids, RequestIDFromContext(ctx))
			if len(ids) < 3 {
				return 0, rateLimited
			}
			return 1, nil
		})

		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.NotEmpty(t, ids[0])
		assert.Equal(t, ids[0], ids[1])
		assert.Equal(t, ids[0], ids[2])
	})
}

func TestSleepContext(t *testing.T) {
	t.Run("waits for the duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, sleepContext(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := sleepContext(ctx, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
