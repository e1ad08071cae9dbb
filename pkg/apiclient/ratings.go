package apiclient

import (
	"context"
	"net/http"
)

// UserRating is zero when the user has not rated the dish.
func (c *Client) UserRating(ctx context.Context, token string, dishID int) (int, error) {
	var out RatingResponse
	if err := c.doJSON(ctx, http.MethodGet, "rates/"+itoa(dishID), nil, token, nil, &out); err != nil {
		return 0, err
	}
	return out.UserRating, nil
}

func (c *Client) CreateRating(ctx context.Context, token string, dishID, rating int) error {
	in := Rating{Dish: dishID, Rating: rating}
	return c.doJSON(ctx, http.MethodPost, "rates/"+itoa(dishID), nil, token, in, nil)
}

func (c *Client) UpdateRating(ctx context.Context, token string, dishID, rating int) error {
	in := Rating{Dish: dishID, Rating: rating}
	return c.doJSON(ctx, http.MethodPut, "rates/"+itoa(dishID), nil, token, in, nil)
}
