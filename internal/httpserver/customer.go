package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/internal/util"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// CustomerHTTP serves everything under /customer.
type CustomerHTTP struct {
	View
	Menu      *service.MenuService
	Cart      *service.CartService
	Orders    *service.OrderService
	Addresses *service.AddressService
	Ratings   *service.RatingService
}

type menuPage struct {
	Menu *service.Menu
	Cart *domain.Cart
}

type cartPage struct {
	Cart      *domain.Cart
	Addresses []apiclient.Address
	AddressID int
}

type ordersPage struct {
	Pending   []service.PendingOrder
	Completed []apiclient.Order
}

func (h *CustomerHTTP) MenuPage(c echo.Context) error {
	return h.showMenu(c, nil)
}

// showMenu renders the menu, reporting cause when a form post on it failed.
func (h *CustomerHTTP) showMenu(c echo.Context, cause error) error {
	sess := session.Current(c)
	category := util.ParseIntDefault(c.QueryParam("category"), 0)
	query := strings.TrimSpace(c.QueryParam("q"))

	var data menuPage
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		data.Menu, err = h.Menu.Menu(ctx, sess, category, query)
		return err
	})
	g.Go(func() error {
		var err error
		data.Cart, err = h.Cart.GetCart(ctx, sess)
		return err
	})
	err := g.Wait()

	p := h.page(c, "Menu", data)
	switch {
	case err != nil:
		return h.fail(c, "customer_menu", p, err)
	case cause != nil:
		return h.fail(c, "customer_menu", p, cause)
	}
	return c.Render(http.StatusOK, "customer_menu", p)
}

func (h *CustomerHTTP) AddToCart(c echo.Context) error {
	sess := session.Current(c)
	cart, err := h.Cart.Add(c.Request().Context(), sess, formInt(c, "dish_id"), formInt(c, "quantity"))
	if err != nil {
		return h.showMenu(c, err)
	}
	item, _ := cart.Get(formInt(c, "dish_id"))
	return h.redirect(c, "/customer", item.Name+" added to your cart.")
}

func (h *CustomerHTTP) Rate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Ratings.Rate(c.Request().Context(), session.Current(c), id, formInt(c, "rating")); err != nil {
		return h.showMenu(c, err)
	}
	return h.redirect(c, "/customer", "Thank you for your rating!")
}

func (h *CustomerHTTP) CartPage(c echo.Context) error {
	return h.showCart(c, nil)
}

func (h *CustomerHTTP) showCart(c echo.Context, cause error) error {
	sess := session.Current(c)
	data := cartPage{AddressID: formInt(c, "address_id")}

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		data.Cart, err = h.Cart.GetCart(ctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		data.Addresses, err = h.Addresses.List(ctx, sess)
		return err
	})
	err := g.Wait()

	p := h.page(c, "Your cart", data)
	switch {
	case err != nil:
		return h.fail(c, "customer_cart", p, err)
	case cause != nil:
		return h.fail(c, "customer_cart", p, cause)
	}
	return c.Render(http.StatusOK, "customer_cart", p)
}

func (h *CustomerHTTP) RemoveFromCart(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.Cart.Remove(c.Request().Context(), session.Current(c), id); err != nil {
		return h.showCart(c, err)
	}
	return h.redirect(c, "/customer/cart", "")
}

func (h *CustomerHTTP) ApplyDiscount(c echo.Context) error {
	_, msg, err := h.Cart.ApplyDiscount(c.Request().Context(), session.Current(c), c.FormValue("code"))
	if err != nil {
		return h.showCart(c, err)
	}
	if msg == "" {
		msg = "Discount applied."
	}
	return h.redirect(c, "/customer/cart", msg)
}

func (h *CustomerHTTP) Checkout(c echo.Context) error {
	res, err := h.Cart.Checkout(c.Request().Context(), session.Current(c), formInt(c, "address_id"))
	if err != nil {
		return h.showCart(c, err)
	}
	msg := res.Message
	if msg == "" {
		msg = "Order placed successfully!"
	}
	return h.redirect(c, "/customer/orders", msg)
}

func (h *CustomerHTTP) PendingOrders(c echo.Context) error {
	list, err := h.Orders.Pending(c.Request().Context(), session.Current(c))
	p := h.page(c, "Pending orders", ordersPage{Pending: list})
	if err != nil {
		return h.fail(c, "customer_orders", p, err)
	}
	return c.Render(http.StatusOK, "customer_orders", p)
}

// CancelOrder renders the pending list patched with the outcome, so a
// canceled order disappears without reloading the list.
func (h *CustomerHTTP) CancelOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	list, msg, err := h.Orders.Cancel(c.Request().Context(), session.Current(c), id)
	if msg == "" {
		msg = "Order canceled."
	}
	if errors.Is(err, service.ErrStaleList) {
		logging.FromContext(c.Request().Context()).Warn("pending_orders_reload_failed", "order_id", id, "error", err)
		return h.redirect(c, "/customer/orders", msg)
	}
	p := h.page(c, "Pending orders", ordersPage{Pending: list})
	if err != nil {
		return h.fail(c, "customer_orders", p, err)
	}
	h.notice(p, msg)
	return c.Render(http.StatusOK, "customer_orders", p)
}

func (h *CustomerHTTP) CompletedOrders(c echo.Context) error {
	list, err := h.Orders.Completed(c.Request().Context(), session.Current(c))
	p := h.page(c, "Completed orders", ordersPage{Completed: list})
	if err != nil {
		return h.fail(c, "customer_completed", p, err)
	}
	return c.Render(http.StatusOK, "customer_completed", p)
}

func (h *CustomerHTTP) AddressesPage(c echo.Context) error {
	list, err := h.Addresses.List(c.Request().Context(), session.Current(c))
	p := h.page(c, "Addresses", list)
	if err != nil {
		return h.fail(c, "customer_addresses", p, err)
	}
	return c.Render(http.StatusOK, "customer_addresses", p)
}

func (h *CustomerHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.Current(c)

	if _, err := h.Addresses.Create(ctx, sess, c.FormValue("street"), c.FormValue("area")); err != nil {
		list, listErr := h.Addresses.List(ctx, sess)
		if listErr != nil {
			err = listErr
		}
		return h.fail(c, "customer_addresses", h.page(c, "Addresses", list), err)
	}
	if c.FormValue("next") == "cart" {
		return h.redirect(c, "/customer/cart", "Address added.")
	}
	return h.redirect(c, "/customer/addresses", "Address added.")
}
