package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retrostylings/shop/internal/service/order"
	"github.com/retrostylings/shop/internal/transport"
	"github.com/retrostylings/shop/pkg/logging"
)

type OrderHTTP struct {
	Svc *order.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("place_order_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Validation", Message: "invalid body"})
	}

	rcpt, err := h.Svc.PlaceOrder(ctx, order.PlaceOrderRequest{
		UserID:          userID,
		Email:           currentEmail(c),
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
	})
	if err != nil {
		return placeOrderError(c, l, err)
	}

	l.Info("place_order_success", "order_id", rcpt.Order.ID, "total", rcpt.Order.Total.StringFixed(2))
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		OrderID:  rcpt.Order.ID,
		Total:    rcpt.Order.Total,
		Subtotal: rcpt.Order.Subtotal,
		Shipping: rcpt.Order.ShippingFee,
	})
}

func placeOrderError(c echo.Context, l *slog.Logger, err error) error {
	var stockErr *order.StockError
	var unavailable *order.UnavailableError

	switch {
	case errors.Is(err, order.ErrEmptyCart):
		l.Warn("place_order_error", "status", 400, "reason", "empty cart", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "EmptyCart", Message: "cart is empty"})
	case errors.Is(err, order.ErrValidation):
		l.Warn("place_order_error", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Validation", Message: err.Error()})
	case errors.As(err, &stockErr):
		l.Warn("place_order_error", "status", 409, "reason", "insufficient stock", "error", err)
		return c.JSON(http.StatusConflict, transport.ErrorResponse{
			Error:    "InsufficientStock",
			Message:  err.Error(),
			Product:  stockErr.First(),
			Products: stockErr.Shortages,
		})
	case errors.As(err, &unavailable):
		l.Warn("place_order_error", "status", 409, "reason", "product unavailable", "error", err)
		return c.JSON(http.StatusConflict, transport.ErrorResponse{
			Error:   "ProductUnavailable",
			Message: err.Error(),
			Product: unavailable.ProductID,
		})
	case errors.Is(err, order.ErrConflict):
		l.Warn("place_order_error", "status", 409, "reason", "cart changed during checkout", "error", err)
		return c.JSON(http.StatusConflict, transport.ErrorResponse{Error: "Conflict", Message: "cart changed, please retry"})
	case errors.Is(err, order.ErrStoreUnavailable):
		l.Error("place_order_error", "status", 503, "reason", "store unavailable", "error", err)
		return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Error: "StoreUnavailable", Message: "please retry later"})
	default:
		l.Error("place_order_error", "status", 500, "reason", "cannot place order", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Internal", Message: "cannot place order"})
	}
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "reason", "cannot list orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return paginated(c, page, offset, limit, total, items)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	o, err := h.Svc.GetOrder(ctx, userID, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			l.Warn("get_order_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_error", "status", 500, "reason", "cannot get order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order")
	}

	return c.JSON(http.StatusOK, o)
}
