package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "EMPLOYEE_API_"

// envOverrides lists the settings that can be overridden from the
// environment, keyed by variable name without EnvPrefix.
type envOverrides struct {
	Address         *string        `mapstructure:"ADDRESS"`
	ShutdownTimeout *time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	LogLevel        *string        `mapstructure:"LOG_LEVEL"`
	LogJSON         *bool          `mapstructure:"LOG_JSON"`
	BaseURL         *string        `mapstructure:"BASE_URL"`
	Timeout         *time.Duration `mapstructure:"TIMEOUT"`
	MaxRetries      *int           `mapstructure:"MAX_RETRIES"`
	RetryDelay      *time.Duration `mapstructure:"RETRY_DELAY"`
}

// ReadEnvFile parses a dotenv file. A missing file is not an error when
// optional is true.
func ReadEnvFile(fs afero.Fs, path string, optional bool) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error opening env file: %w", err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing env file %s: %w", path, err)
	}
	return vars, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// ApplyEnv overrides cfg with every EnvPrefix variable found in the given
// variable sets. Later sets take precedence over earlier ones.
func (c *Config) ApplyEnv(sets ...map[string]string) error {
	input := make(map[string]any)
	for _, vars := range sets {
		for k, v := range vars {
			if name, ok := strings.CutPrefix(k, EnvPrefix); ok {
				input[name] = v
			}
		}
	}
	if len(input) == 0 {
		return nil
	}

	var o envOverrides
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &o,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("error decoding %s environment: %w", EnvPrefix, err)
	}

	if o.Address != nil {
		c.Server.Address = *o.Address
	}
	if o.ShutdownTimeout != nil {
		c.Server.ShutdownTimeout = *o.ShutdownTimeout
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogJSON != nil {
		c.LogJSON = *o.LogJSON
	}
	if o.BaseURL != nil {
		c.Upstream.BaseURL = *o.BaseURL
	}
	if o.Timeout != nil {
		c.Upstream.Timeout = *o.Timeout
	}
	if o.MaxRetries != nil {
		c.Upstream.MaxRetries = *o.MaxRetries
	}
	if o.RetryDelay != nil {
		c.Upstream.RetryDelay = *o.RetryDelay
	}

	return nil
}
