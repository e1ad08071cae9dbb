package loggingmw

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// CtxUser is the echo context key under which the session middleware stores
// the username, so completed requests can be attributed.
const CtxUser = "username"

// RequestLogger puts a request scoped logger into the request context and logs
// one line per completed request. Paths with one of the skip prefixes are
// served without the completion line.
func RequestLogger(base *slog.Logger, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			if skipped(c.Request().URL.Path, skip) && err == nil && status < 500 {
				return nil
			}

			attrs := []any{"status", status, "duration_ms", dur.Milliseconds()}
			if u, ok := c.Get(CtxUser).(string); ok && u != "" {
				attrs = append(attrs, "user", u)
			}

			switch {
			case err != nil || status >= 500:
				l.Error("request_completed", append(attrs, "error", errStr(err))...)
			case status >= 400:
				l.Warn("request_completed", attrs...)
			default:
				l.Info("request_completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
