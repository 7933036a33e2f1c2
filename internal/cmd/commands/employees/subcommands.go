package employees

import (
	"context"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/employee-api/internal/cmd/base"
	"github.com/hashicorp-forge/employee-api/pkg/employees"
	"github.com/hashicorp-forge/employee-api/pkg/models"
)

type ListCommand struct {
	clientCommand
}

func (c *ListCommand) Synopsis() string {
	return "List all employees"
}

func (c *ListCommand) Help() string {
	return `Usage: employee-api employees list [options]

  Print every employee known to the upstream service.` + c.flags("list").Help()
}

func (c *ListCommand) Run(args []string) int {
	agg := c.setup(c.flags("list"), args)
	if agg == nil {
		return 1
	}

	emps, err := agg.FetchAll(context.Background())
	if err != nil {
		return c.fail("error fetching employees", err)
	}
	return c.print(emps)
}

type SearchCommand struct {
	clientCommand
}

func (c *SearchCommand) Synopsis() string {
	return "Search employees by name"
}

func (c *SearchCommand) Help() string {
	return `Usage: employee-api employees search [options] <fragment>

  Print the employees whose name contains fragment, ignoring case.` +
		c.flags("search").Help()
}

func (c *SearchCommand) Run(args []string) int {
	f := c.flags("search")
	agg := c.setup(f, args)
	if agg == nil {
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the name fragment")
		return 1
	}

	emps, err := agg.SearchByName(context.Background(), f.Arg(0))
	if err != nil {
		return c.fail("error searching employees", err)
	}
	return c.print(emps)
}

type GetCommand struct {
	clientCommand
}

func (c *GetCommand) Synopsis() string {
	return "Get an employee by ID"
}

func (c *GetCommand) Help() string {
	return `Usage: employee-api employees get [options] <id>

  Print the employee with the given ID, or null if upstream does not
  know it.` + c.flags("get").Help()
}

func (c *GetCommand) Run(args []string) int {
	f := c.flags("get")
	agg := c.setup(f, args)
	if agg == nil {
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the employee ID")
		return 1
	}

	emp, err := agg.GetByID(context.Background(), f.Arg(0))
	if err != nil {
		return c.fail("error fetching employee", err)
	}
	return c.print(emp)
}

type HighestSalaryCommand struct {
	clientCommand
}

func (c *HighestSalaryCommand) Synopsis() string {
	return "Print the highest salary"
}

func (c *HighestSalaryCommand) Help() string {
	return `Usage: employee-api employees highest-salary [options]

  Print the highest salary of all employees, or 0 if there are none.` +
		c.flags("highest-salary").Help()
}

func (c *HighestSalaryCommand) Run(args []string) int {
	agg := c.setup(c.flags("highest-salary"), args)
	if agg == nil {
		return 1
	}

	highest, err := agg.HighestSalary(context.Background())
	if err != nil {
		return c.fail("error calculating highest salary", err)
	}
	return c.print(highest)
}

type TopEarnersCommand struct {
	clientCommand

	flagN int
}

func (c *TopEarnersCommand) Synopsis() string {
	return "Print the names of the highest earners"
}

func (c *TopEarnersCommand) Help() string {
	return `Usage: employee-api employees top-earners [options]

  Print the names of the highest paid employees, highest first.` +
		c.topFlags().Help()
}

func (c *TopEarnersCommand) topFlags() *base.FlagSet {
	f := c.flags("top-earners")
	f.IntVar(
		&c.flagN, "n", employees.DefaultTopEarners,
		"Number of names to print",
	)
	return f
}

func (c *TopEarnersCommand) Run(args []string) int {
	agg := c.setup(c.topFlags(), args)
	if agg == nil {
		return 1
	}

	names, err := agg.TopEarners(context.Background(), c.flagN)
	if err != nil {
		return c.fail("error finding top earners", err)
	}
	return c.print(names)
}

type CreateCommand struct {
	clientCommand

	flagInput  string
	flagName   string
	flagSalary int
	flagAge    int
	flagTitle  string
}

func (c *CreateCommand) Synopsis() string {
	return "Create an employee"
}

func (c *CreateCommand) Help() string {
	return `Usage: employee-api employees create [options]

  Create an employee from flags or from a JSON or YAML file with the
  fields name, salary, age and title.` + c.createFlags().Help()
}

func (c *CreateCommand) createFlags() *base.FlagSet {
	f := c.flags("create")
	f.StringVar(
		&c.flagInput, "input", "",
		"Path to a JSON or YAML file describing the employee",
	)
	f.StringVar(&c.flagName, "name", "", "Employee name")
	f.IntVar(&c.flagSalary, "salary", 0, "Employee salary")
	f.IntVar(&c.flagAge, "age", 0, "Employee age")
	f.StringVar(&c.flagTitle, "title", "", "Employee title")
	return f
}

func (c *CreateCommand) Run(args []string) int {
	agg := c.setup(c.createFlags(), args)
	if agg == nil {
		return 1
	}

	input := models.EmployeeInput{
		Name:   c.flagName,
		Salary: c.flagSalary,
		Age:    c.flagAge,
		Title:  c.flagTitle,
	}
	if c.flagInput != "" {
		fs := c.FS
		if fs == nil {
			fs = afero.NewOsFs()
		}
		b, err := afero.ReadFile(fs, c.flagInput)
		if err != nil {
			return c.fail("error reading input file", err)
		}
		// YAML is a superset of JSON, so both formats decode here.
		if err := yaml.Unmarshal(b, &input); err != nil {
			return c.fail("error decoding input file", err)
		}
	}

	if err := input.Validate(); err != nil {
		return c.fail("invalid employee", err)
	}

	emp, err := agg.Create(context.Background(), &input)
	if err != nil {
		return c.fail("error creating employee", err)
	}
	return c.print(emp)
}

type DeleteCommand struct {
	clientCommand
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete an employee by ID"
}

func (c *DeleteCommand) Help() string {
	return `Usage: employee-api employees delete [options] <id>

  Delete the employee with the given ID.` + c.flags("delete").Help()
}

func (c *DeleteCommand) Run(args []string) int {
	f := c.flags("delete")
	agg := c.setup(f, args)
	if agg == nil {
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one argument: the employee ID")
		return 1
	}

	msg, err := agg.Delete(context.Background(), f.Arg(0))
	if err != nil {
		return c.fail("error deleting employee", err)
	}
	c.UI.Output(msg)
	return 0
}
