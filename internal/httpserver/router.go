package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/gate"
	"github.com/Skotchmaster/restaurant_web/internal/middleware/csrf"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	loggingmw "github.com/Skotchmaster/restaurant_web/pkg/middleware/logging"
)

type Deps struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Public   *PublicHTTP
	Customer *CustomerHTTP
	Employee *EmployeeHTTP
	Manager  *ManagerHTTP
	// Ready reports whether the backing stores answer.
	Ready        func(context.Context) error
	CookieSecure bool
}

func Register(e *echo.Echo, d *Deps) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = r
	e.HTTPErrorHandler = errorHandler(e)

	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger, "/health", "/static"))
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "same-origin",
	}))
	e.Use(d.Sessions.Middleware())
	e.Use(csrf.Middleware(csrf.Config{
		Secure:       d.CookieSecure,
		SkipPrefixes: []string{"/health", "/static"},
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.StaticFS("/static", staticFiles())

	e.GET("/", d.Public.Home)
	e.GET("/login", d.Public.LoginForm)
	e.POST("/login", d.Public.Login)
	e.GET("/signup", d.Public.SignupForm)
	e.POST("/signup", d.Public.Signup)
	e.GET("/logout", d.Public.LogoutForm)
	e.POST("/logout", d.Public.Logout)

	customer := e.Group("/customer", gate.RequireRole(domain.RoleCustomer))
	customer.GET("", d.Customer.MenuPage)
	customer.POST("/dishes/:id/rating", d.Customer.Rate)
	customer.GET("/cart", d.Customer.CartPage)
	customer.POST("/cart/items", d.Customer.AddToCart)
	customer.POST("/cart/items/:id/remove", d.Customer.RemoveFromCart)
	customer.POST("/cart/discount", d.Customer.ApplyDiscount)
	customer.POST("/cart/checkout", d.Customer.Checkout)
	customer.GET("/orders", d.Customer.PendingOrders)
	customer.POST("/orders/:id/cancel", d.Customer.CancelOrder)
	customer.GET("/orders/completed", d.Customer.CompletedOrders)
	customer.GET("/addresses", d.Customer.AddressesPage)
	customer.POST("/addresses", d.Customer.CreateAddress)

	employee := e.Group("/employee", gate.RequireRole(domain.RoleEmployee))
	employee.GET("", d.Employee.OrdersPage)
	employee.POST("/orders/:id/complete", d.Employee.CompleteOrder)
	employee.GET("/orders/completed", d.Employee.CompletedPage)

	manager := e.Group("/manager", gate.RequireRole(domain.RoleManager))
	manager.GET("", d.Manager.Dashboard)
	manager.GET("/dishes", d.Manager.DishesPage)
	manager.POST("/dishes", d.Manager.CreateDish)
	manager.POST("/dishes/:id", d.Manager.UpdateDish)
	manager.POST("/dishes/:id/delete", d.Manager.DeleteDish)
	manager.GET("/employees", d.Manager.EmployeesPage)
	manager.POST("/employees", d.Manager.CreateEmployee)
	manager.POST("/employees/:id", d.Manager.UpdateEmployee)
	manager.POST("/employees/:id/delete", d.Manager.DeleteEmployee)
	manager.GET("/discounts", d.Manager.DiscountsPage)
	manager.POST("/discounts", d.Manager.CreateDiscount)
	manager.GET("/reports/orders", d.Manager.OrdersReport)

	return nil
}

// errorHandler renders unhandled errors as the error page.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := genericFailure
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		p := &Page{Title: http.StatusText(status), Session: session.Current(c), CSRF: csrf.Token(c), Error: msg}
		if rerr := c.Render(status, "error", p); rerr != nil {
			e.Logger.Error(rerr)
			_ = c.String(status, msg)
		}
	}
}
