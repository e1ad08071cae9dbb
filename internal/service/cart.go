package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/repo"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

type CartAPI interface {
	CustomerDishes(ctx context.Context, token, category string) ([]apiclient.Dish, error)
	ApplyDiscount(ctx context.Context, token, code string) (*apiclient.ApplyDiscountResponse, error)
	CreateOrder(ctx context.Context, token string, r apiclient.CreateOrderRequest) (*apiclient.CreateOrderResponse, error)
}

type CartService struct {
	Repo   *repo.GormRepo
	API    CartAPI
	Events events.Publisher
}

func (h *CartService) GetCart(ctx context.Context, sess domain.Session) (*domain.Cart, error) {
	return h.Repo.GetCart(ctx, sess.User)
}

// Add puts qty units of a menu dish into the cart. Name and price are taken
// from the menu, never from the form.
func (h *CartService) Add(ctx context.Context, sess domain.Session, dishID, qty int) (*domain.Cart, error) {
	if dishID <= 0 {
		return nil, fmt.Errorf("dish id must be positive: %w", domain.ErrValidation)
	}
	if qty < 1 {
		qty = 1
	}

	dishes, err := h.API.CustomerDishes(ctx, sess.Token, "")
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	i := slices.IndexFunc(dishes, func(d apiclient.Dish) bool { return d.ID == dishID })
	if i < 0 {
		return nil, fmt.Errorf("dish %d: %w", dishID, domain.ErrNotFound)
	}
	d := dishes[i]

	cart, err := h.Repo.UpdateCart(ctx, sess.User, func(c *domain.Cart) error {
		c.Add(domain.CartItem{DishID: d.ID, Name: d.Name, Price: d.Price, Image: d.Image}, qty)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	publish(ctx, h.Events, events.TopicCart, events.NewEvent(events.CartItemAdded, sess.User, map[string]any{
		"dish_id":  d.ID,
		"quantity": qty,
	}))
	return cart, nil
}

// Remove takes one unit of the dish out of the cart. Unknown ids change
// nothing.
func (h *CartService) Remove(ctx context.Context, sess domain.Session, dishID int) (*domain.Cart, error) {
	var removed bool
	cart, err := h.Repo.UpdateCart(ctx, sess.User, func(c *domain.Cart) error {
		_, removed = c.Remove(dishID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	if removed {
		publish(ctx, h.Events, events.TopicCart, events.NewEvent(events.CartItemRemoved, sess.User, map[string]any{
			"dish_id": dishID,
		}))
	}
	return cart, nil
}

// ApplyDiscount validates code with the API and stores the returned
// percentage. A rejected code leaves the cart untouched and the API error is
// returned as is so its message can be shown.
func (h *CartService) ApplyDiscount(ctx context.Context, sess domain.Session, code string) (*domain.Cart, string, error) {
	code = strings.TrimSpace(code)
	if err := domain.Require("discount code", code); err != nil {
		return nil, "", err
	}

	res, err := h.API.ApplyDiscount(ctx, sess.Token, code)
	if err != nil {
		return nil, "", err
	}

	cart, err := h.Repo.UpdateCart(ctx, sess.User, func(c *domain.Cart) error {
		c.SetDiscount(code, res.DiscountPercentage)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("store discount: %w", err)
	}

	publish(ctx, h.Events, events.TopicCart, events.NewEvent(events.DiscountApplied, sess.User, map[string]any{
		"code":       code,
		"percentage": res.DiscountPercentage,
	}))
	return cart, res.Message, nil
}

// Checkout submits the cart as an order to addressID. The cart is cleared
// only after the API accepted the order.
func (h *CartService) Checkout(ctx context.Context, sess domain.Session, addressID int) (*apiclient.CreateOrderResponse, error) {
	if addressID <= 0 {
		return nil, fmt.Errorf("please select a delivery address: %w", domain.ErrValidation)
	}

	cart, err := h.Repo.GetCart(ctx, sess.User)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.Empty() {
		return nil, fmt.Errorf("your cart is empty: %w", domain.ErrValidation)
	}

	lines := cart.Lines()
	req := apiclient.CreateOrderRequest{
		Address:      addressID,
		Items:        make([]apiclient.OrderLine, 0, len(lines)),
		DiscountCode: cart.Discount().Code,
		TotalPrice:   cart.DiscountedTotal().Round(2),
	}
	for _, l := range lines {
		req.Items = append(req.Items, apiclient.OrderLine{ID: l.ID, Quantity: l.Quantity})
	}

	res, err := h.API.CreateOrder(ctx, sess.Token, req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if err := h.Repo.DeleteAllFromCart(ctx, sess.User); err != nil {
		logging.FromContext(ctx).Error("clear_cart_after_order_failed", "user", sess.User, "error", err)
	}

	publish(ctx, h.Events, events.TopicOrders, events.NewEvent(events.OrderPlaced, sess.User, map[string]any{
		"address":     addressID,
		"items":       len(req.Items),
		"total_price": req.TotalPrice.StringFixed(2),
	}))
	return res, nil
}
