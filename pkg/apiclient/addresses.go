package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Addresses accepts both a bare list and {"addresses": [...]}.
func (c *Client) Addresses(ctx context.Context, token string) ([]Address, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "addresses/", nil, token, nil, &raw); err != nil {
		return nil, err
	}

	var list []Address
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Addresses []Address `json:"addresses"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &Error{Status: http.StatusOK, Message: genericMessage, Err: fmt.Errorf("decode addresses: %w", err)}
	}
	return wrapped.Addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, token string, a Address) (*Address, error) {
	var out Address
	in := map[string]string{"street": a.Street, "area": a.Area}
	if err := c.doJSON(ctx, http.MethodPost, "addresses/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
