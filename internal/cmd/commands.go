package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/employee-api/internal/cmd/base"
	"github.com/hashicorp-forge/employee-api/internal/cmd/commands/employees"
	"github.com/hashicorp-forge/employee-api/internal/cmd/commands/serve"
	"github.com/hashicorp-forge/employee-api/internal/cmd/commands/version"
)

// Commands is the mapping of all available employee-api commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"employees": func() (cli.Command, error) {
			return &employees.Command{Command: b}, nil
		},
		"serve": func() (cli.Command, error) {
			return &serve.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}

	for name, sub := range employees.Subcommands(b, nil) {
		Commands["employees "+name] = func() (cli.Command, error) {
			return sub, nil
		}
	}
}
