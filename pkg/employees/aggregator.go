// Package employees derives read models from the upstream employee collection.
package employees

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/employee-api/pkg/models"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// DefaultTopEarners is the number of names TopEarners returns when n <= 0.
const DefaultTopEarners = 10

// Messages returned by Delete.
const (
	DeletedMessage  = "Employee deleted successfully."
	NotFoundMessage = "Employee not found."
)

// ErrBlankID is returned when an operation is given an empty or
// whitespace-only employee ID. No upstream call is made.
var ErrBlankID = errors.New("employee id must not be blank")

// Source is the upstream employee service.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Employee, error)
	FetchByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, input models.EmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
}

var _ Source = (*upstream.Client)(nil)

// Aggregator serves employee operations on top of a Source. It holds no
// state between calls; every read fetches the full collection again.
type Aggregator struct {
	source Source
	logger hclog.Logger
}

// New creates a new Aggregator.
func New(source Source, logger hclog.Logger) *Aggregator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Aggregator{
		source: source,
		logger: logger.Named("employees"),
	}
}

// FetchAll returns all employees in upstream order.
func (a *Aggregator) FetchAll(ctx context.Context) ([]models.Employee, error) {
	a.logger.Info("fetching all employees")

	emps, err := a.source.FetchAll(ctx)
	if err != nil {
		a.logger.Error("error fetching employees", "operation", "FetchAll", "error", err)
		return nil, err
	}
	return emps, nil
}

// SearchByName returns the employees whose name contains fragment, ignoring
// case, in upstream order. Employees without a name never match.
func (a *Aggregator) SearchByName(ctx context.Context, fragment string) ([]models.Employee, error) {
	a.logger.Info("searching by name fragment", "fragment", fragment)

	emps, err := a.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(fragment)
	matches := []models.Employee{}
	for _, e := range emps {
		if e.Name != nil && strings.Contains(strings.ToLower(*e.Name), needle) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// HighestSalary returns the largest salary in the collection, or 0 if no
// employee has a salary.
func (a *Aggregator) HighestSalary(ctx context.Context) (int, error) {
	a.logger.Info("calculating highest salary")

	emps, err := a.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, e := range emps {
		if e.Salary != nil && *e.Salary > highest {
			highest = *e.Salary
		}
	}
	return highest, nil
}

// TopEarners returns the names of the n highest paid employees, highest
// first. Employees with equal salaries keep their upstream order. Employees
// without a salary are ignored. n <= 0 means DefaultTopEarners.
func (a *Aggregator) TopEarners(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultTopEarners
	}
	a.logger.Info("finding top earners", "n", n)

	emps, err := a.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	paid := make([]models.Employee, 0, len(emps))
	for _, e := range emps {
		if e.Salary != nil {
			paid = append(paid, e)
		}
	}

	slices.SortStableFunc(paid, func(x, y models.Employee) int {
		return cmp.Compare(*y.Salary, *x.Salary)
	})

	names := make([]string, 0, min(n, len(paid)))
	for _, e := range paid[:min(n, len(paid))] {
		names = append(names, e.NameValue())
	}
	return names, nil
}

// GetByID returns the employee with the given ID, or nil if upstream does not
// know it.
func (a *Aggregator) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	if isBlank(id) {
		a.logger.Warn("blank employee id", "operation", "GetByID")
		return nil, ErrBlankID
	}
	a.logger.Info("fetching employee by id", "id", id)

	emp, err := a.source.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			a.logger.Warn("employee not found", "id", id)
			return nil, nil
		}
		a.logger.Error("error fetching employee", "operation", "GetByID", "id", id, "error", err)
		return nil, err
	}
	return emp, nil
}

// Create submits input upstream and returns the created employee. A nil
// input returns nil without calling upstream.
func (a *Aggregator) Create(ctx context.Context, input *models.EmployeeInput) (*models.Employee, error) {
	if input == nil {
		a.logger.Warn("nil employee input", "operation", "Create")
		return nil, nil
	}
	a.logger.Info("creating employee", "name", input.Name)

	emp, err := a.source.Create(ctx, *input)
	if err != nil {
		a.logger.Error("error creating employee", "operation", "Create", "name", input.Name, "error", err)
		return nil, err
	}
	return emp, nil
}

// Delete removes the employee with the given ID and returns a confirmation
// message. An unknown ID is reported with NotFoundMessage, not an error.
func (a *Aggregator) Delete(ctx context.Context, id string) (string, error) {
	if isBlank(id) {
		a.logger.Warn("blank employee id", "operation", "Delete")
		return "", ErrBlankID
	}
	a.logger.Info("deleting employee by id", "id", id)

	if err := a.source.Delete(ctx, id); err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			a.logger.Warn("employee was not found", "id", id)
			return NotFoundMessage, nil
		}
		a.logger.Error("error deleting employee", "operation", "Delete", "id", id, "error", err)
		return "", err
	}
	return DeletedMessage, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
