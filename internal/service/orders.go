package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type OrdersAPI interface {
	PendingOrders(ctx context.Context, token string) ([]apiclient.Order, error)
	CompletedOrders(ctx context.Context, token string) ([]apiclient.Order, error)
	AllOrders(ctx context.Context, token string) ([]apiclient.Order, error)
	CompletedOrdersAll(ctx context.Context, token string) ([]apiclient.Order, error)
	CancelOrder(ctx context.Context, token string, orderID int) (*apiclient.MessageResponse, error)
	CompleteOrder(ctx context.Context, token string, orderID int) (*apiclient.MessageResponse, error)
}

type OrderService struct {
	API    OrdersAPI
	Events events.Publisher
	Now    Clock
}

// PendingOrder is a pending order as shown to its customer.
type PendingOrder struct {
	apiclient.Order
	Cancelable bool
}

func pendingID(o PendingOrder) int { return o.ID }

func (h *OrderService) Pending(ctx context.Context, sess domain.Session) ([]PendingOrder, error) {
	orders, err := h.API.PendingOrders(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load pending orders: %w", err)
	}
	now := h.Now.now()
	out := make([]PendingOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, PendingOrder{Order: o, Cancelable: domain.Cancelable(o.PendingAt, now)})
	}
	return out, nil
}

func (h *OrderService) Completed(ctx context.Context, sess domain.Session) ([]apiclient.Order, error) {
	orders, err := h.API.CompletedOrders(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load completed orders: %w", err)
	}
	return orders, nil
}

// Cancel asks the API to cancel orderID and returns the reloaded pending list
// with that order removed. When the cancel fails the list is returned as the
// API reports it next to the error. A list that cannot be reloaded after a
// successful cancel gives ErrStaleList together with the API message.
func (h *OrderService) Cancel(ctx context.Context, sess domain.Session, orderID int) ([]PendingOrder, string, error) {
	if orderID <= 0 {
		return nil, "", fmt.Errorf("order id must be positive: %w", domain.ErrValidation)
	}

	res, cerr := h.API.CancelOrder(ctx, sess.Token, orderID)
	if cerr == nil {
		publish(ctx, h.Events, events.TopicOrders, events.NewEvent(events.OrderCanceled, sess.User, map[string]any{
			"order_id": orderID,
		}))
	}

	list, err := h.Pending(ctx, sess)
	switch {
	case cerr != nil:
		return list, "", fmt.Errorf("cancel order %d: %w", orderID, cerr)
	case err != nil:
		return nil, res.Message, fmt.Errorf("%w: %w", ErrStaleList, err)
	}
	return domain.FilterByID(list, orderID, pendingID), res.Message, nil
}

// All is the employee's view of every order.
func (h *OrderService) All(ctx context.Context, sess domain.Session) ([]apiclient.Order, error) {
	orders, err := h.API.AllOrders(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}

func (h *OrderService) CompletedAll(ctx context.Context, sess domain.Session) ([]apiclient.Order, error) {
	orders, err := h.API.CompletedOrdersAll(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("load completed orders: %w", err)
	}
	return orders, nil
}

// Complete marks orderID completed and returns the reloaded order list with
// the new status patched in. Failures follow Cancel.
func (h *OrderService) Complete(ctx context.Context, sess domain.Session, orderID int) ([]apiclient.Order, string, error) {
	if orderID <= 0 {
		return nil, "", fmt.Errorf("order id must be positive: %w", domain.ErrValidation)
	}

	res, cerr := h.API.CompleteOrder(ctx, sess.Token, orderID)
	if cerr == nil {
		publish(ctx, h.Events, events.TopicOrders, events.NewEvent(events.OrderCompleted, sess.User, map[string]any{
			"order_id": orderID,
		}))
	}

	list, err := h.All(ctx, sess)
	switch {
	case cerr != nil:
		return list, "", fmt.Errorf("complete order %d: %w", orderID, cerr)
	case err != nil:
		return nil, res.Message, fmt.Errorf("%w: %w", ErrStaleList, err)
	}
	for _, o := range list {
		if o.ID == orderID {
			o.Status = domain.StatusCompleted
			list = domain.ReplaceByID(list, o, apiclient.OrderID)
			break
		}
	}
	return list, res.Message, nil
}
