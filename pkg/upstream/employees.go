package upstream

import (
	"context"
	"net/http"

	"github.com/hashicorp-forge/employee-api/pkg/models"
)

// FetchAll returns every employee in upstream order. A null or missing data
// field yields an empty slice.
func (c *Client) FetchAll(ctx context.Context) ([]models.Employee, error) {
	const op = "FetchAll"

	return Execute(ctx, c, op, func(ctx context.Context) ([]models.Employee, error) {
		var env models.EmployeeListEnvelope
		if err := c.do(ctx, op, http.MethodGet, c.config.BaseURL, nil, &env); err != nil {
			return nil, err
		}
		if env.Data == nil {
			return []models.Employee{}, nil
		}
		return env.Data, nil
	})
}

// FetchByID returns the employee with the given ID. The result is nil if
// upstream answered with a null data field. A 404 is returned as ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id string) (*models.Employee, error) {
	const op = "FetchByID"

	return Execute(ctx, c, op, func(ctx context.Context) (*models.Employee, error) {
		var env models.EmployeeEnvelope
		if err := c.do(ctx, op, http.MethodGet, c.employeeURL(id), nil, &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Create submits a new employee and returns the record upstream echoes back.
func (c *Client) Create(ctx context.Context, input models.EmployeeInput) (*models.Employee, error) {
	const op = "Create"

	return Execute(ctx, c, op, func(ctx context.Context) (*models.Employee, error) {
		var env models.EmployeeEnvelope
		if err := c.do(ctx, op, http.MethodPost, c.config.BaseURL, input, &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	})
}

// Delete removes the employee with the given ID. The request body names the
// employee by its ID, as upstream expects.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "Delete"

	_, err := Execute(ctx, c, op, func(ctx context.Context) (struct{}, error) {
		body := map[string]string{"name": id}
		return struct{}{}, c.do(ctx, op, http.MethodDelete, c.employeeURL(id), body, nil)
	})
	return err
}
