package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPaths: []string{"/login"}}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/cart", ok)
	e.POST("/cart", ok)
	e.POST("/login", ok)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	e := newEcho()

	get := serve(e, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, get.Code)
	token := get.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	cookieReq := func(header string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/cart", nil)
		req.Host = "example.com"
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		return req
	}

	t.Run("cookie session without header is rejected", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, serve(e, cookieReq("")).Code)
	})

	t.Run("cookie session with matching header passes", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(e, cookieReq(token)).Code)
	})

	t.Run("foreign origin is rejected", func(t *testing.T) {
		req := cookieReq(token)
		req.Header.Set("Origin", "http://evil.example")
		require.Equal(t, http.StatusForbidden, serve(e, req).Code)
	})

	t.Run("bearer clients are not checked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cart", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer jwt")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
		require.Equal(t, http.StatusOK, serve(e, req).Code)
	})

	t.Run("skipped path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
		require.Equal(t, http.StatusOK, serve(e, req).Code)
	})
}

func TestMiddleware_AllowCrossOrigin(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(Config{AllowCrossOrigin: true}))
	e.POST("/cart", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "http://example.com/cart", nil)
	req.Header.Set("Origin", "http://other.example")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	req.Header.Set("X-CSRF-Token", "tok")
	require.Equal(t, http.StatusOK, serve(e, req).Code)

	req.Header.Set("X-CSRF-Token", "wrong")
	require.Equal(t, http.StatusForbidden, serve(e, req).Code)
}
