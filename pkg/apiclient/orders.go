package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) CreateOrder(ctx context.Context, token string, r CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "complete-order/", nil, token, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PendingOrders(ctx context.Context, token string) ([]Order, error) {
	return c.orders(ctx, "orders/pending/", token)
}

func (c *Client) CompletedOrders(ctx context.Context, token string) ([]Order, error) {
	return c.orders(ctx, "orders/completed/", token)
}

// AllOrders is the staff view of every order.
func (c *Client) AllOrders(ctx context.Context, token string) ([]Order, error) {
	return c.orders(ctx, "orders/", token)
}

func (c *Client) CompletedOrdersAll(ctx context.Context, token string) ([]Order, error) {
	return c.orders(ctx, "completed-orders/", token)
}

func (c *Client) orders(ctx context.Context, path, token string) ([]Order, error) {
	var out []Order
	if err := c.doJSON(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelOrder(ctx context.Context, token string, orderID int) (*MessageResponse, error) {
	var out MessageResponse
	in := map[string]int{"order_id": orderID}
	if err := c.doJSON(ctx, http.MethodPost, "orders/cancel/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteOrder(ctx context.Context, token string, orderID int) (*MessageResponse, error) {
	var out MessageResponse
	in := map[string]string{"status": "completed"}
	if err := c.doJSON(ctx, http.MethodPatch, "orders/"+itoa(orderID)+"/update-status/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
