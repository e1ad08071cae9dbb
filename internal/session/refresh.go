package session

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// refresh reissues the cookie once less than half of its lifetime is left.
func (s *Store) refresh(c echo.Context, sess domain.Session, exp time.Time) {
	if exp.IsZero() || exp.Sub(s.now()) > s.ttl/2 {
		return
	}
	if err := s.Save(c, sess); err != nil {
		logging.FromContext(c.Request().Context()).Warn("session_refresh_failed", "user", sess.User, "error", err)
	}
}
