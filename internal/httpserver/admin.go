package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retrostylings/shop/internal/service/admin"
	"github.com/retrostylings/shop/internal/transport"
	"github.com/retrostylings/shop/pkg/logging"
)

type AdminHTTP struct {
	Svc *admin.AdminService
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("stats_error", "status", 500, "reason", "cannot compute stats", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot compute stats")
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	page, offset, limit := pageParams(c)
	total, users, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		l.Error("list_users_error", "status", 500, "reason", "cannot list users", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}
	return paginated(c, page, offset, limit, total, users)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page, offset, limit := pageParams(c)
	total, rows, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		if errors.Is(err, admin.ErrValidation) {
			l.Warn("admin_list_orders_error", "status", 400, "reason", "unknown status", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("admin_list_orders_error", "status", 500, "reason", "cannot list orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}
	return paginated(c, page, offset, limit, total, rows)
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrValidation):
			l.Warn("update_order_status_error", "status", 400, "reason", "unknown status", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, admin.ErrNotFound):
			l.Warn("update_order_status_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, admin.ErrInvalidTransition):
			l.Warn("update_order_status_error", "status", 409, "reason", "invalid transition", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("update_order_status_error", "status", 500, "reason", "cannot update order", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
		}
	}

	l.Info("update_order_status_success", "order_id", o.ID, "order_status", o.OrderStatus)
	return c.JSON(http.StatusOK, o)
}
