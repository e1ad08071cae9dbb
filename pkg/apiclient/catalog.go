package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

func (c *Client) Categories(ctx context.Context, token string) ([]Category, error) {
	var out []Category
	if err := c.doJSON(ctx, http.MethodGet, "categories/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Dishes(ctx context.Context, token string) ([]Dish, error) {
	var out []Dish
	if err := c.doJSON(ctx, http.MethodGet, "dishes/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerDishes lists the menu, optionally restricted to the category with
// the given name. The API filters by name, not id.
func (c *Client) CustomerDishes(ctx context.Context, token, category string) ([]Dish, error) {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	var out []Dish
	if err := c.doJSON(ctx, http.MethodGet, "customer-dishes/", q, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDish(ctx context.Context, token string, f DishForm) (*Dish, error) {
	return c.sendDish(ctx, http.MethodPost, "dishes/", token, f)
}

func (c *Client) UpdateDish(ctx context.Context, token string, id int, f DishForm) (*Dish, error) {
	return c.sendDish(ctx, http.MethodPut, "dishes/"+itoa(id)+"/", token, f)
}

func (c *Client) DeleteDish(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "dishes/"+itoa(id)+"/", nil, token, nil, nil)
}

func (c *Client) sendDish(ctx context.Context, method, path, token string, f DishForm) (*Dish, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", f.Name},
		{"description", f.Description},
		{"category", itoa(f.Category)},
		{"price", f.Price.StringFixed(2)},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	if f.Image != nil && len(f.Image.Data) > 0 {
		part, err := w.CreateFormFile("image", f.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(f.Image.Data); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, token, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out Dish
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
