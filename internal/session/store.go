package session

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/hkdf"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
	loggingmw "github.com/Skotchmaster/restaurant_web/pkg/middleware/logging"
)

const (
	CookieName = "auth"
	CtxSession = "session"
)

var ErrMalformed = errors.New("malformed session")

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*apiclient.LoginResponse, error)
}

type claims struct {
	Token string `json:"token"`
	User  string `json:"user"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Store keeps the current session in a signed cookie. The cookie holds the
// whole session so nothing is kept server side.
type Store struct {
	key    []byte
	ttl    time.Duration
	secure bool
	api    Authenticator
	now    func() time.Time
}

func NewStore(secret []byte, ttl time.Duration, secure bool, api Authenticator) *Store {
	return &Store{
		key:    deriveKey(secret),
		ttl:    ttl,
		secure: secure,
		api:    api,
		now:    time.Now,
	}
}

func deriveKey(secret []byte) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, secret, nil, []byte("restaurant-web session v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		panic(fmt.Sprintf("derive session key: %v", err))
	}
	return key
}

func (s *Store) Encode(sess domain.Session) (string, error) {
	if !sess.Valid() || !sess.Authenticated() {
		return "", ErrMalformed
	}
	now := s.now()
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Token: sess.Token,
		User:  sess.User,
		Role:  string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.User,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return tkn.SignedString(s.key)
}

func (s *Store) Decode(raw string) (domain.Session, error) {
	sess, _, err := s.decode(raw)
	return sess, err
}

func (s *Store) decode(raw string) (domain.Session, time.Time, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return domain.Session{}, time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	sess := domain.Session{Token: c.Token, User: c.User, Role: domain.Role(c.Role)}
	if !sess.Valid() || !sess.Authenticated() {
		return domain.Session{}, time.Time{}, ErrMalformed
	}
	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	return sess, exp, nil
}

// Restore reads the session from the request. A missing or malformed cookie
// yields the empty session; the error tells the two apart.
func (s *Store) Restore(r *http.Request) (domain.Session, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return domain.Session{}, nil
	}
	return s.Decode(ck.Value)
}

func (s *Store) Save(c echo.Context, sess domain.Session) error {
	raw, err := s.Encode(sess)
	if err != nil {
		return err
	}
	c.SetCookie(CreateCookie(CookieName, raw, "/", s.now().Add(s.ttl), s.secure))
	c.Set(CtxSession, sess)
	return nil
}

func (s *Store) Clear(c echo.Context) {
	c.SetCookie(DeleteCookie(CookieName, "/", s.secure))
	c.Set(CtxSession, domain.Session{})
}

// Login exchanges credentials for an API token and replaces any previous
// session. Rejected credentials give domain.ErrAuthentication.
func (s *Store) Login(c echo.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if err := domain.Require("username", username, "password", password); err != nil {
		return domain.Session{}, err
	}

	res, err := s.api.Login(c.Request().Context(), username, password)
	if err != nil {
		switch apiclient.StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return domain.Session{}, fmt.Errorf("%s: %w", apiclient.MessageOf(err, "invalid credentials"), domain.ErrAuthentication)
		}
		return domain.Session{}, err
	}

	role, ok := domain.ParseRole(res.Role)
	if !ok || res.Token == "" {
		return domain.Session{}, fmt.Errorf("unsupported role %q: %w", res.Role, domain.ErrAuthentication)
	}
	user := res.Username
	if user == "" {
		user = username
	}

	sess := domain.Session{Token: res.Token, User: user, Role: role}
	if err := s.Save(c, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *Store) Logout(c echo.Context) {
	s.Clear(c)
}

// Middleware restores the session before every handler. A cookie that fails
// to decode is dropped from the browser and a stale one is reissued.
func (s *Store) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess domain.Session
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				var exp time.Time
				sess, exp, err = s.decode(ck.Value)
				if err != nil {
					c.SetCookie(DeleteCookie(CookieName, "/", s.secure))
				} else {
					s.refresh(c, sess, exp)
				}
			}
			c.Set(CtxSession, sess)
			if sess.Authenticated() {
				c.Set(loggingmw.CtxUser, sess.User)
			}
			return next(c)
		}
	}
}

// Current returns the session restored for this request.
func Current(c echo.Context) domain.Session {
	sess, _ := c.Get(CtxSession).(domain.Session)
	return sess
}
