package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) Employees(ctx context.Context, token string) ([]Employee, error) {
	var out []Employee
	if err := c.doJSON(ctx, http.MethodGet, "employee/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, token string, e Employee) (*Employee, error) {
	var out Employee
	if err := c.doJSON(ctx, http.MethodPost, "employee/", nil, token, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee keeps the stored password when e.Password is empty.
func (c *Client) UpdateEmployee(ctx context.Context, token string, id int, e Employee) (*Employee, error) {
	var out Employee
	if err := c.doJSON(ctx, http.MethodPut, "employee/"+itoa(id)+"/", nil, token, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "employee/"+itoa(id)+"/", nil, token, nil, nil)
}
