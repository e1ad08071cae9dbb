package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/internal/service"
	"github.com/Skotchmaster/restaurant_web/internal/session"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// PublicHTTP serves the pages reachable without a session.
type PublicHTTP struct {
	View
	Sessions *session.Store
	Accounts *service.AccountService
	Events   events.Publisher
}

type loginForm struct {
	Username string
}

func (h *PublicHTTP) Home(c echo.Context) error {
	if sess := session.Current(c); sess.Authenticated() {
		return c.Redirect(http.StatusFound, sess.Role.Home())
	}
	return c.Render(http.StatusOK, "home", h.page(c, "Welcome", nil))
}

func (h *PublicHTTP) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", h.page(c, "Log in", loginForm{}))
}

func (h *PublicHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	form := loginForm{Username: c.FormValue("username")}

	sess, err := h.Sessions.Login(c, form.Username, c.FormValue("password"))
	if err != nil {
		return h.fail(c, "login", h.page(c, "Log in", form), err)
	}

	if h.Events != nil {
		ev := events.NewEvent(events.UserLoggedIn, sess.User, map[string]any{"role": string(sess.Role)})
		if err := h.Events.PublishEvent(ctx, events.TopicUsers, sess.User, ev); err != nil {
			logging.FromContext(ctx).Warn("publish_event_failed", "type", ev.Type, "error", err)
		}
	}
	logging.FromContext(ctx).Info("user_logged_in", "user", sess.User, "role", string(sess.Role))
	return c.Redirect(http.StatusSeeOther, sess.Role.Home())
}

// LogoutForm asks for confirmation before POST /logout.
func (h *PublicHTTP) LogoutForm(c echo.Context) error {
	if !session.Current(c).Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, "logout", h.page(c, "Log out", nil))
}

func (h *PublicHTTP) Logout(c echo.Context) error {
	h.Sessions.Logout(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *PublicHTTP) SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", h.page(c, "Sign up", apiclient.Registration{}))
}

func (h *PublicHTTP) Signup(c echo.Context) error {
	reg := apiclient.Registration{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
	}

	sess, msg, err := h.Accounts.Signup(c.Request().Context(), reg)
	if err != nil {
		reg.Password = ""
		p := h.page(c, "Sign up", reg)
		p.LoginLink = errors.Is(err, service.ErrUsernameTaken)
		return h.fail(c, "signup", p, err)
	}
	if msg == "" {
		msg = "Registration successful."
	}

	if !sess.Authenticated() {
		return h.redirect(c, "/login", msg+" Please log in.")
	}
	if err := h.Sessions.Save(c, sess); err != nil {
		return err
	}
	return h.redirect(c, sess.Role.Home(), msg)
}
