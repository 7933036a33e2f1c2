package employees

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/employee-api/internal/cmd/base"
	"github.com/hashicorp-forge/employee-api/pkg/employees"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Query and modify employees through the upstream service"
}

func (c *Command) Help() string {
	return `Usage: employee-api employees <subcommand> [options] [args]

  This command groups subcommands that run employee operations directly
  against the upstream employee service and print the result.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// Subcommands returns the employees subcommands keyed by name. fs and opts
// are used by every subcommand; a nil fs means the OS filesystem.
func Subcommands(b *base.Command, fs afero.Fs, opts ...upstream.Option) map[string]cli.Command {
	cc := func() clientCommand {
		return clientCommand{Command: b, FS: fs, Options: opts}
	}
	return map[string]cli.Command{
		"list":           &ListCommand{clientCommand: cc()},
		"search":         &SearchCommand{clientCommand: cc()},
		"get":            &GetCommand{clientCommand: cc()},
		"highest-salary": &HighestSalaryCommand{clientCommand: cc()},
		"top-earners":    &TopEarnersCommand{clientCommand: cc()},
		"create":         &CreateCommand{clientCommand: cc()},
		"delete":         &DeleteCommand{clientCommand: cc()},
	}
}

// clientCommand holds what every employees subcommand shares: configuration
// flags, the output format and the aggregator built from them.
type clientCommand struct {
	*base.Command

	// FS is the filesystem configuration files are read from. Defaults to
	// the OS filesystem.
	FS afero.Fs

	// Options are passed to the upstream client.
	Options []upstream.Option

	configFlags base.ConfigFlags
	flagFormat  string
}

func (c *clientCommand) flags(name string) *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))

	c.configFlags.Register(f)
	f.StringVar(
		&c.flagFormat, "format", "json",
		"Output format: json or yaml",
	)

	return f
}

// setup parses args and builds the aggregator. It reports failures on the
// UI and returns nil.
func (c *clientCommand) setup(f *base.FlagSet, args []string) *employees.Aggregator {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return nil
	}

	switch c.flagFormat {
	case "json", "yaml":
	default:
		c.UI.Error(fmt.Sprintf("invalid format %q: must be json or yaml", c.flagFormat))
		return nil
	}

	fs := c.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cfg, err := c.configFlags.Load(fs)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return nil
	}
	c.ConfigureLogger(cfg, "employee-api", nil)

	agg, err := c.NewAggregator(cfg, c.Options...)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating upstream client: %v", err))
		return nil
	}
	return agg
}

// print writes v to the UI in the selected format.
func (c *clientCommand) print(v any) int {
	var out []byte
	var err error

	switch c.flagFormat {
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding output: %v", err))
		return 1
	}

	c.UI.Output(strings.TrimRight(string(out), "\n"))
	return 0
}

// fail reports an operation error and returns the exit code.
func (c *clientCommand) fail(msg string, err error) int {
	c.UI.Error(fmt.Sprintf("%s: %v", msg, err))
	return 1
}
