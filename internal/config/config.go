// Package config loads the employee-api configuration.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// the HCL configuration file, an optional env file, the process environment
// and finally command-line flags (applied by the caller).
//
// Example configuration (HCL):
//
//	log_level = "info"
//	log_json  = false
//
//	server {
//	  address          = "127.0.0.1:8080"
//	  shutdown_timeout = "10s"
//	}
//
//	upstream {
//	  base_url    = "http://localhost:8112/api/v1/employee"
//	  timeout     = "30s"
//	  max_retries = 3
//	  retry_delay = "1s"
//	}
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// DefaultAddress is the default listen address of the HTTP server.
const DefaultAddress = "127.0.0.1:8080"

// Config is the resolved configuration.
type Config struct {
	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string

	// LogJSON switches log output to JSON.
	LogJSON bool

	Server ServerConfig

	Upstream *upstream.Config
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Address is the listen address.
	Address string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Address:         DefaultAddress,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: upstream.DefaultConfig(),
	}
}

// Level returns the configured hclog level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Level() == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("log_level %q is not one of trace, debug, info, warn, error",
				c.LogLevel))
	}

	if strings.TrimSpace(c.Server.Address) == "" {
		result = multierror.Append(result, fmt.Errorf("server address is required"))
	}

	if c.Server.ShutdownTimeout <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("shutdown_timeout must be positive, got: %v", c.Server.ShutdownTimeout))
	}

	if c.Upstream == nil {
		result = multierror.Append(result, fmt.Errorf("upstream configuration is required"))
	} else if err := c.Upstream.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("upstream: %w", err))
	}

	return result.ErrorOrNil()
}
