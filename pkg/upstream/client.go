package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// maxErrorBody bounds how much of an unexpected response body ends up in an
// error message.
const maxErrorBody = 512

// Observer receives per-attempt notifications from the client.
type Observer interface {
	ObserveAttempt(op string, outcome Outcome, elapsed time.Duration)
	ObserveRetry(op string)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, Outcome, time.Duration) {}
func (nopObserver) ObserveRetry(string)                          {}

// Client talks to the upstream employee service. Every operation is run
// through Execute, so rate-limited calls are retried with linear backoff.
type Client struct {
	config   *Config
	client   *http.Client
	logger   hclog.Logger
	observer Observer
	sleep    Sleeper
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client built from the configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithObserver sets the attempt observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithSleeper replaces the function used to wait between retries.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// NewClient creates a new upstream client.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Apply defaults
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = DefaultConfig().TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid upstream config: %w", err)
	}

	c := &Client{
		config:   cfg,
		observer: nopObserver{},
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = cfg.NewHTTPClient()
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	c.logger = c.logger.Named("upstream")

	return c, nil
}

// BaseURL returns the configured collection URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// employeeURL returns the URL of a single employee resource.
func (c *Client) employeeURL(id string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + url.PathEscape(id)
}

// do performs a single HTTP exchange and maps the response onto the failure
// taxonomy. It never retries; see Execute.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err, Msg: "failed to marshal request body"}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return &Error{Op: op, Err: err, Msg: "failed to create request"}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, RequestIDFromContext(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Op: op, Err: ctxErr, Msg: "request cancelled"}
		}
		return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Op:         op,
			Err:        fmt.Errorf("%w: %v", ErrUnavailable, err),
			Msg:        "failed to read response",
			StatusCode: resp.StatusCode,
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			c.logger.Debug("upstream sent Retry-After", "operation", op, "retry_after", ra)
		}
		return &Error{Op: op, Err: ErrRateLimited, StatusCode: resp.StatusCode}

	case resp.StatusCode == http.StatusNotFound:
		return &Error{Op: op, Err: ErrNotFound, StatusCode: resp.StatusCode}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &Error{
			Op:         op,
			Err:        ErrUnexpectedStatus,
			Msg:        fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(respBody, maxErrorBody)),
			StatusCode: resp.StatusCode,
		}
	}

	// An empty body leaves result at its zero value.
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{
				Op:         op,
				Err:        fmt.Errorf("%w: %v", ErrMalformed, err),
				StatusCode: resp.StatusCode,
			}
		}
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
