package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrostylings/shop/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func sign(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(secret, uuid.NewString(), "u@example.com", role, exp)
	require.NoError(t, err)
	return tok
}

func run(t *testing.T, mw echo.MiddlewareFunc, setup func(r *http.Request)) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	m := NewAuthMiddleware(secret)

	t.Run("missing token", func(t *testing.T) {
		_, err := run(t, m.RequireAuth, func(r *http.Request) {})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("expired token", func(t *testing.T) {
		tok := sign(t, tokens.RoleUser, time.Now().Add(-time.Minute))
		_, err := run(t, m.RequireAuth, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("bearer header", func(t *testing.T) {
		tok := sign(t, tokens.RoleUser, time.Now().Add(time.Minute))
		c, err := run(t, m.RequireAuth, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		})
		require.NoError(t, err)
		assert.NotEmpty(t, c.Get(CtxUserID))
		assert.Equal(t, tokens.RoleUser, c.Get(CtxRole))
		assert.Equal(t, "u@example.com", c.Get(CtxEmail))
	})

	t.Run("cookie fallback", func(t *testing.T) {
		tok := sign(t, tokens.RoleUser, time.Now().Add(time.Minute))
		_, err := run(t, m.RequireAuth, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
		})
		require.NoError(t, err)
	})
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(secret)

	userTok := sign(t, tokens.RoleUser, time.Now().Add(time.Minute))
	_, err := run(t, m.RequireAdmin, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+userTok)
	})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	adminTok := sign(t, tokens.RoleAdmin, time.Now().Add(time.Minute))
	_, err = run(t, m.RequireAdmin, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+adminTok)
	})
	require.NoError(t, err)
}

func TestOptional(t *testing.T) {
	m := NewAuthMiddleware(secret)

	c, err := run(t, m.Optional, func(r *http.Request) {})
	require.NoError(t, err)
	assert.Nil(t, c.Get(CtxUserID))

	c, err = run(t, m.Optional, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	})
	require.NoError(t, err)
	assert.Nil(t, c.Get(CtxUserID))
}
