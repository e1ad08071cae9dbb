package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// EmployeeHTTP serves the kitchen view under /employee.
type EmployeeHTTP struct {
	View
	Orders *service.OrderService
}

func (h *EmployeeHTTP) OrdersPage(c echo.Context) error {
	list, err := h.Orders.All(c.Request().Context(), session.Current(c))
	p := h.page(c, "Orders", list)
	if err != nil {
		return h.fail(c, "employee_orders", p, err)
	}
	return c.Render(http.StatusOK, "employee_orders", p)
}

func (h *EmployeeHTTP) CompleteOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	list, msg, err := h.Orders.Complete(c.Request().Context(), session.Current(c), id)
	if msg == "" {
		msg = "Order completed."
	}
	if errors.Is(err, service.ErrStaleList) {
		logging.FromContext(c.Request().Context()).Warn("orders_reload_failed", "order_id", id, "error", err)
		return h.redirect(c, "/employee", msg)
	}
	p := h.page(c, "Orders", list)
	if err != nil {
		return h.fail(c, "employee_orders", p, err)
	}
	h.notice(p, msg)
	return c.Render(http.StatusOK, "employee_orders", p)
}

func (h *EmployeeHTTP) CompletedPage(c echo.Context) error {
	list, err := h.Orders.CompletedAll(c.Request().Context(), session.Current(c))
	if list == nil {
		list = []apiclient.Order{}
	}
	p := h.page(c, "Completed orders", list)
	if err != nil {
		return h.fail(c, "employee_completed", p, err)
	}
	return c.Render(http.StatusOK, "employee_completed", p)
}
