package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/testutil"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

func newTestStore(t *testing.T, api *testutil.FakeAPI) *Store {
	t.Helper()
	var client *apiclient.Client
	if api != nil {
		client = apiclient.NewClient(api.BaseURL(), "Token", time.Second)
	}
	return NewStore([]byte("test-session-secret"), time.Hour, false, client)
}

func newContext(method, target string, body string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

func TestStore_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	want := domain.Session{Token: "tok", User: "alice", Role: domain.RoleCustomer}

	raw, err := s.Encode(want)
	require.NoError(t, err)

	got, err := s.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_EncodeRejectsPartialSession(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	_, err := s.Encode(domain.Session{Token: "tok"})
	require.ErrorIs(t, err, ErrMalformed)
	_, err = s.Encode(domain.Session{})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestStore_DecodeRejectsTampering(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	other := NewStore([]byte("another-secret"), time.Hour, false, nil)

	forged, err := other.Encode(domain.Session{Token: "t", User: "eve", Role: domain.RoleManager})
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{Token: "t", User: "eve", Role: "admin"})
	badRoleRaw, err := badRole.SignedString(s.key)
	require.NoError(t, err)

	partial := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{User: "eve", Role: "manager"})
	partialRaw, err := partial.SignedString(s.key)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"foreign signature": forged,
		"not a jwt":         "garbage",
		"unknown role":      badRoleRaw,
		"missing token":     partialRaw,
	} {
		_, err := s.Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestStore_DecodeRejectsExpired(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	raw, err := s.Encode(domain.Session{Token: "t", User: "u", Role: domain.RoleEmployee})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Decode(raw)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestStore_MiddlewareRestoresSession(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	want := domain.Session{Token: "tok", User: "bob", Role: domain.RoleEmployee}
	raw, err := s.Encode(want)
	require.NoError(t, err)

	c, _ := newContext(http.MethodGet, "/employee", "", &http.Cookie{Name: CookieName, Value: raw})
	var got domain.Session
	h := s.Middleware()(func(c echo.Context) error {
		got = Current(c)
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, want, got)
	assert.Equal(t, "bob", c.Get("username"))
}

func TestStore_MiddlewareDropsMalformedCookie(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	c, rec := newContext(http.MethodGet, "/", "", &http.Cookie{Name: CookieName, Value: "{not json"})

	var got domain.Session
	h := s.Middleware()(func(c echo.Context) error {
		got = Current(c)
		return nil
	})
	require.NoError(t, h(c))

	assert.False(t, got.Authenticated())
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, -1, ck.MaxAge)
}

func TestStore_LoginSavesSessionAndRoundTrips(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/token-auth/", http.StatusOK, map[string]any{
		"token": "abc123", "user_id": 5, "username": "mia", "role": "manager",
	})
	s := newTestStore(t, api)

	form := url.Values{"username": {"mia"}, "password": {"pw"}}.Encode()
	c, rec := newContext(http.MethodPost, "/login", form)

	sess, err := s.Login(c, "mia", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Token: "abc123", User: "mia", Role: domain.RoleManager}, sess)

	var body map[string]string
	api.LastJSON(t, "POST /api/token-auth/", &body)
	assert.Equal(t, map[string]string{"username": "mia", "password": "pw"}, body)

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)

	next, _ := newContext(http.MethodGet, "/manager", "", ck)
	restored, err := s.Restore(next.Request())
	require.NoError(t, err)
	assert.Equal(t, sess, restored)
}

func TestStore_LoginRejected(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/token-auth/", http.StatusUnauthorized, map[string]string{"error": "Invalid credentials."})
	s := newTestStore(t, api)

	c, rec := newContext(http.MethodPost, "/login", "")
	_, err := s.Login(c, "mia", "wrong")
	require.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Contains(t, err.Error(), "Invalid credentials.")
	assert.Nil(t, sessionCookie(rec))
}

func TestStore_LoginValidatesBeforeCalling(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	s := newTestStore(t, api)

	c, _ := newContext(http.MethodPost, "/login", "")
	_, err := s.Login(c, "  ", "pw")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.Total())
}

func TestStore_LoginServerFailureIsRemoteError(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/token-auth/", http.StatusInternalServerError, map[string]string{"detail": "boom"})
	s := newTestStore(t, api)

	c, _ := newContext(http.MethodPost, "/login", "")
	_, err := s.Login(c, "mia", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAuthentication)
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))
}

func TestStore_LogoutClearsCookie(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, nil)
	c, rec := newContext(http.MethodPost, "/logout", "")
	c.Set(CtxSession, domain.Session{Token: "t", User: "u", Role: domain.RoleCustomer})

	s.Logout(c)

	assert.False(t, Current(c).Authenticated())
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
}

func TestStore_MiddlewareRefreshesStaleCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		age     time.Duration
		reissue bool
	}{
		{name: "fresh", age: 10 * time.Minute, reissue: false},
		{name: "past half life", age: 40 * time.Minute, reissue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestStore(t, nil)
			issued := time.Now()
			s.now = func() time.Time { return issued }
			raw, err := s.Encode(domain.Session{Token: "t", User: "u", Role: domain.RoleCustomer})
			require.NoError(t, err)

			s.now = func() time.Time { return issued.Add(tt.age) }
			c, rec := newContext(http.MethodGet, "/customer", "", &http.Cookie{Name: CookieName, Value: raw})
			h := s.Middleware()(func(c echo.Context) error { return nil })
			require.NoError(t, h(c))

			assert.True(t, Current(c).Authenticated())
			ck := sessionCookie(rec)
			if !tt.reissue {
				assert.Nil(t, ck)
				return
			}
			require.NotNil(t, ck)
			assert.NotEqual(t, raw, ck.Value)
		})
	}
}
