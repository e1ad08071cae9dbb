package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	in := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "token-auth/", nil, "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, r Registration) (*RegistrationResponse, error) {
	var out RegistrationResponse
	if err := c.doJSON(ctx, http.MethodPost, "customer-registration/", nil, "", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
