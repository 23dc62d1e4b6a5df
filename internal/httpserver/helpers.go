package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retrostylings/shop/internal/transport"
	authmw "github.com/retrostylings/shop/pkg/middleware/auth"
	"github.com/retrostylings/shop/pkg/tokens"
	"github.com/retrostylings/shop/pkg/util"
)

var errNoUser = errors.New("no authenticated user")

func currentUserID(c echo.Context) (uuid.UUID, error) {
	raw, ok := c.Get(authmw.CtxUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, errNoUser
	}
	return uuid.Parse(raw)
}

func currentEmail(c echo.Context) string {
	email, _ := c.Get(authmw.CtxEmail).(string)
	return email
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get(authmw.CtxRole).(string)
	return role == tokens.RoleAdmin
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	return page, offset, limit
}

func paginated[T any](c echo.Context, page, offset, limit int, total int64, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, transport.Page[T]{
		Data: items,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}
