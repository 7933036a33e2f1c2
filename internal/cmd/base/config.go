package base

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/employee-api/internal/config"
	"github.com/hashicorp-forge/employee-api/pkg/employees"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// DefaultEnvFile is read, when present, if no -env-file is given.
const DefaultEnvFile = ".env"

// ConfigFlags are the configuration flags shared by commands that talk to
// the upstream employee service.
type ConfigFlags struct {
	ConfigPath string
	EnvFile    string
	BaseURL    string
}

// Register adds the configuration flags to f.
func (cf *ConfigFlags) Register(f *FlagSet) {
	f.StringVar(
		&cf.ConfigPath, "config", "",
		"Path to an HCL configuration file",
	)
	f.StringVar(
		&cf.EnvFile, "env-file", "",
		"Path to a dotenv file (default: ./.env when present)",
	)
	f.StringVar(
		&cf.BaseURL, "base-url", "",
		"[EMPLOYEE_API_BASE_URL] Upstream employee collection URL",
	)
}

// Load resolves the configuration: defaults, config file, env file,
// process environment and finally flags. The result is validated.
func (cf *ConfigFlags) Load(fs afero.Fs) (*config.Config, error) {
	cfg, err := config.Load(fs, cf.ConfigPath)
	if err != nil {
		return nil, err
	}

	envPath, optional := cf.EnvFile, false
	if envPath == "" {
		envPath, optional = DefaultEnvFile, true
	}
	fileVars, err := config.ReadEnvFile(fs, envPath, optional)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(fileVars, config.Environ()); err != nil {
		return nil, err
	}

	if cf.BaseURL != "" {
		cfg.Upstream.BaseURL = cf.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ConfigureLogger applies the configured level and format to the command
// logger.
func (c *Command) ConfigureLogger(cfg *config.Config, name string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	if cfg.LogJSON {
		c.Log = hclog.New(&hclog.LoggerOptions{
			Name:       name,
			Level:      cfg.Level(),
			JSONFormat: true,
			Output:     out,
		})
		return
	}
	c.Log.SetLevel(cfg.Level())
}

// NewAggregator builds the upstream client and the employee aggregator for
// cfg.
func (c *Command) NewAggregator(cfg *config.Config, opts ...upstream.Option) (*employees.Aggregator, error) {
	opts = append([]upstream.Option{upstream.WithLogger(c.Log)}, opts...)
	client, err := upstream.NewClient(cfg.Upstream, opts...)
	if err != nil {
		return nil, err
	}
	return employees.New(client, c.Log), nil
}
