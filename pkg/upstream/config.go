package upstream

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the employee collection endpoint of a locally running
// upstream service.
const DefaultBaseURL = "http://localhost:8112/api/v1/employee"

// Config contains configuration for the upstream employee service client.
//
// Example configuration (HCL):
//
//	upstream {
//	  base_url    = "http://localhost:8112/api/v1/employee"
//	  timeout     = "30s"
//	  max_retries = 3
//	  retry_delay = "1s"
//	}
type Config struct {
	// BaseURL is the URL of the employee collection resource.
	// Single employees live at BaseURL + "/{id}".
	BaseURL string `json:"baseUrl"`

	// TLSVerify controls TLS certificate verification
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Timeout for a single upstream request (one attempt).
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries is the number of times a rate-limited request is retried.
	// Default: 3
	MaxRetries int `json:"maxRetries"`

	// RetryDelay is the backoff step; retry n waits RetryDelay * n.
	// Default: 1 second
	RetryDelay time.Duration `json:"retryDelay,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:    DefaultBaseURL,
		TLSVerify:  &tlsVerify,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", c.MaxRetries)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative, got: %v", c.RetryDelay)
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client for the upstream service.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
