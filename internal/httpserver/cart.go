package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retrostylings/shop/internal/service/cart"
	"github.com/retrostylings/shop/internal/transport"
	"github.com/retrostylings/shop/pkg/logging"
)

type CartHTTP struct {
	Svc *cart.CartService
}

type WishlistHTTP struct {
	Svc *cart.WishlistService
}

func cartError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, cart.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		l.Error(event, "status", 500, "reason", "cart store failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return cartError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	add := cart.AddRequest{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
	if req.VariantID != nil {
		add.VariantID = *req.VariantID
	}
	item, err := h.Svc.AddToCart(ctx, add)
	if err != nil {
		return cartError(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("update_cart_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, id, req.Quantity)
	if err != nil {
		return cartError(l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("remove_cart_item_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("remove_cart_item_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.RemoveItem(ctx, userID, id); err != nil {
		return cartError(l, "remove_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("list_wishlist_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entries, err := h.Svc.List(ctx, userID)
	if err != nil {
		return cartError(l, "list_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("add_wishlist_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_wishlist_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Add(ctx, userID, req.ProductID); err != nil {
		return cartError(l, "add_wishlist_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("remove_wishlist_error", "status", 401, "reason", "no user in token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("remove_wishlist_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.Remove(ctx, userID, id); err != nil {
		return cartError(l, "remove_wishlist_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
