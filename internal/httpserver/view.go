package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/middleware/csrf"
	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

const (
	flashCookie    = "notice"
	genericFailure = "Something went wrong. Please try again."
)

// Page is the data handed to every template.
type Page struct {
	Title   string
	Session domain.Session
	CSRF    string
	Notice  *Notice
	Error   string
	// LoginLink asks the page to offer a link to the login form next to
	// Error.
	LoginLink bool
	Data      any
}

// Notice is a success message hidden by the browser after TTL milliseconds.
type Notice struct {
	Text string
	TTL  int64
}

// View carries what every handler group needs to build pages.
type View struct {
	NoticeTTL    time.Duration
	CookieSecure bool
}

func (v View) page(c echo.Context, title string, data any) *Page {
	p := &Page{
		Title:   title,
		Session: session.Current(c),
		CSRF:    csrf.Token(c),
		Data:    data,
	}
	if msg := v.takeFlash(c); msg != "" {
		p.Notice = &Notice{Text: msg, TTL: v.NoticeTTL.Milliseconds()}
	}
	return p
}

func (v View) notice(p *Page, msg string) {
	if msg != "" {
		p.Notice = &Notice{Text: msg, TTL: v.NoticeTTL.Milliseconds()}
	}
}

// flash stores msg for the next page the browser loads. The cookie expires
// with the notice.
func (v View) flash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   max(int(v.NoticeTTL.Seconds()), 1),
		Secure:   v.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (v View) takeFlash(c echo.Context) string {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(session.DeleteCookie(flashCookie, "/", v.CookieSecure))
	msg, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirect answers a form post with 303 and an optional notice for the
// target page.
func (v View) redirect(c echo.Context, to, msg string) error {
	if msg != "" {
		v.flash(c, msg)
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// fail logs err and renders page with the user facing message.
func (v View) fail(c echo.Context, name string, p *Page, err error) error {
	status := statusFor(err)
	l := logging.FromContext(c.Request().Context()).With("page", name, "status", status)
	if status >= http.StatusInternalServerError {
		l.Error("page_failed", "error", err)
	} else {
		l.Warn("page_failed", "error", err)
	}
	p.Error = userMessage(err)
	return c.Render(status, name, p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRatingLocked), errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 0 || apiErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return sentence(strings.TrimSuffix(err.Error(), ": "+domain.ErrValidation.Error()))
	case errors.Is(err, domain.ErrAuthentication):
		return sentence(strings.TrimSuffix(err.Error(), ": "+domain.ErrAuthentication.Error()))
	case errors.Is(err, domain.ErrRatingLocked):
		return "You have already rated this dish."
	case errors.Is(err, service.ErrUsernameTaken):
		return "Username is already taken. Please try another."
	case errors.Is(err, domain.ErrNotFound):
		return "The requested item was not found."
	}
	return apiclient.MessageOf(err, genericFailure)
}

func sentence(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

func formInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	return n
}
