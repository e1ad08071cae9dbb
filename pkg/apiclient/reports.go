package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

type topDishes struct {
	TopDishes []TopDish `json:"top_dishes"`
}

func (c *Client) TopSoldDishes(ctx context.Context, token string) ([]TopDish, error) {
	var out topDishes
	if err := c.doJSON(ctx, http.MethodGet, "top-solds/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out.TopDishes, nil
}

func (c *Client) TopOrderedDishes(ctx context.Context, token string) ([]TopDish, error) {
	var out topDishes
	if err := c.doJSON(ctx, http.MethodGet, "top-ordered-dishes/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out.TopDishes, nil
}

// OrdersInDateRange takes dates formatted as YYYY-MM-DD.
func (c *Client) OrdersInDateRange(ctx context.Context, token, start, end string, page int) (*DateRangeReport, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"start_date": {start},
		"end_date":   {end},
		"page":       {itoa(page)},
	}
	var out DateRangeReport
	if err := c.doJSON(ctx, http.MethodGet, "orders-in-date-range/", q, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
