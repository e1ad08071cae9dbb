package apiclient

import (
	"context"
	"net/http"
)

// expirationLayout is ISO 8601 without a zone; the API localizes it.
const expirationLayout = "2006-01-02T15:04:05"

func (c *Client) DiscountCodes(ctx context.Context, token string) ([]DiscountCode, error) {
	var out []DiscountCode
	if err := c.doJSON(ctx, http.MethodGet, "discount-codes/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDiscountCode(ctx context.Context, token string, d DiscountCode) (*DiscountCode, error) {
	in := map[string]any{
		"code":                d.Code,
		"discount_percentage": d.DiscountPercentage,
		"expiration_date":     d.ExpirationDate.Format(expirationLayout),
		"is_active":           d.IsActive,
		"max_usage_per_user":  d.MaxUsagePerUser,
	}
	var out DiscountCode
	if err := c.doJSON(ctx, http.MethodPost, "discount-codes/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApplyDiscount(ctx context.Context, token, code string) (*ApplyDiscountResponse, error) {
	var out ApplyDiscountResponse
	in := map[string]string{"code": code}
	if err := c.doJSON(ctx, http.MethodPost, "apply-discount/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
