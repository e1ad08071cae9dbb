package gate

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToHome:
		return "redirect_home"
	}
	return "unknown"
}

// Authorize is evaluated on every request; nothing is cached.
func Authorize(required domain.Role, s domain.Session) Decision {
	if !s.Authenticated() {
		return RedirectToLogin
	}
	if s.Role != required {
		return RedirectToHome
	}
	return Allow
}

func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.Current(c)
			switch d := Authorize(required, sess); d {
			case RedirectToLogin, RedirectToHome:
				logging.FromContext(c.Request().Context()).Warn("role_gate_denied",
					"required", string(required), "role", string(sess.Role), "decision", d.String())
				if d == RedirectToLogin {
					return c.Redirect(http.StatusSeeOther, "/login")
				}
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}
