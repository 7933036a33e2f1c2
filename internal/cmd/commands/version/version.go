package version

import (
	"fmt"

	"github.com/hashicorp-forge/employee-api/internal/cmd/base"
	"github.com/hashicorp-forge/employee-api/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the employee-api version"
}

func (c *Command) Help() string {
	return `Usage: employee-api version

  Print the employee-api version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("employee-api v%s", version.Version))
	return 0
}
