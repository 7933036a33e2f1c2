package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
)

// file is the shape of the HCL configuration file. Every value is optional
// and only set values override the defaults.
type file struct {
	LogLevel *string        `hcl:"log_level,optional"`
	LogJSON  *bool          `hcl:"log_json,optional"`
	Server   *serverBlock   `hcl:"server,block"`
	Upstream *upstreamBlock `hcl:"upstream,block"`
}

type serverBlock struct {
	Address         *string `hcl:"address,optional"`
	ShutdownTimeout *string `hcl:"shutdown_timeout,optional"`
}

type upstreamBlock struct {
	BaseURL    *string `hcl:"base_url,optional"`
	Timeout    *string `hcl:"timeout,optional"`
	MaxRetries *int    `hcl:"max_retries,optional"`
	RetryDelay *string `hcl:"retry_delay,optional"`
	TLSVerify  *bool   `hcl:"tls_verify,optional"`
}

// Load returns the defaults overlaid with the HCL file at path. An empty
// path returns the defaults. The file name must end in .hcl or .json.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var f file
	if err := hclsimple.Decode(path, src, nil, &f); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if err := f.apply(cfg); err != nil {
		return nil, fmt.Errorf("error in config file %s: %w", path, err)
	}

	return cfg, nil
}

func (f *file) apply(cfg *Config) error {
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogJSON != nil {
		cfg.LogJSON = *f.LogJSON
	}

	if s := f.Server; s != nil {
		if s.Address != nil {
			cfg.Server.Address = *s.Address
		}
		if err := setDuration(&cfg.Server.ShutdownTimeout, "shutdown_timeout", s.ShutdownTimeout); err != nil {
			return err
		}
	}

	if u := f.Upstream; u != nil {
		if u.BaseURL != nil {
			cfg.Upstream.BaseURL = *u.BaseURL
		}
		if u.MaxRetries != nil {
			cfg.Upstream.MaxRetries = *u.MaxRetries
		}
		if u.TLSVerify != nil {
			v := *u.TLSVerify
			cfg.Upstream.TLSVerify = &v
		}
		if err := setDuration(&cfg.Upstream.Timeout, "timeout", u.Timeout); err != nil {
			return err
		}
		if err := setDuration(&cfg.Upstream.RetryDelay, "retry_delay", u.RetryDelay); err != nil {
			return err
		}
	}

	return nil
}

func setDuration(dst *time.Duration, name string, val *string) error {
	if val == nil {
		return nil
	}
	d, err := time.ParseDuration(*val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, *val, err)
	}
	*dst = d
	return nil
}
