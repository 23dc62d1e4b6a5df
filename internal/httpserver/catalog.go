package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/retrostylings/shop/internal/service/catalog"
	"github.com/retrostylings/shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc *catalog.CatalogService
}

// catalogError maps catalog service errors onto HTTP errors and logs them
// under event.
func catalogError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "reason", "catalog store failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	minPrice, err := parsePrice(c.QueryParam("minPrice"))
	if err != nil {
		l.Warn("list_products_error", "status", 400, "reason", "minPrice not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "minPrice not a number")
	}
	maxPrice, err := parsePrice(c.QueryParam("maxPrice"))
	if err != nil {
		l.Warn("list_products_error", "status", 400, "reason", "maxPrice not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "maxPrice not a number")
	}
	isNew, _ := strconv.ParseBool(c.QueryParam("isNew"))

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.ListProducts(ctx, catalog.ListQuery{
		Category:    c.QueryParam("category"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Search:      c.QueryParam("search"),
		IsNew:       isNew,
		Status:      c.QueryParam("status"),
		AllStatuses: isAdmin(c),
		Sort:        c.QueryParam("sort"),
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return catalogError(l, "list_products_error", err)
	}

	l.Info("list_products_success", "total", total)
	return paginated(c, page, offset, limit, total, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	p, err := h.Svc.GetProductBySlug(ctx, c.Param("slug"), isAdmin(c))
	if err != nil {
		return catalogError(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return catalogError(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return catalogError(l, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return catalogError(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return catalogError(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req catalog.CategoryInput
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return catalogError(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_category")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_category_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	var req catalog.CategoryInput
	if err := c.Bind(&req); err != nil {
		l.Warn("update_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return catalogError(l, "update_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_category_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return catalogError(l, "delete_category_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListHeroSlides is the storefront view: active slides only.
func (h *CatalogHTTP) ListHeroSlides(c echo.Context) error {
	return h.listSlides(c, true)
}

func (h *CatalogHTTP) ListAllHeroSlides(c echo.Context) error {
	return h.listSlides(c, false)
}

func (h *CatalogHTTP) listSlides(c echo.Context, onlyActive bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_hero_slides")

	slides, err := h.Svc.ListHeroSlides(ctx, onlyActive)
	if err != nil {
		return catalogError(l, "list_hero_slides_error", err)
	}
	return c.JSON(http.StatusOK, slides)
}

func (h *CatalogHTTP) CreateHeroSlide(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_hero_slide")

	var req catalog.SlideInput
	if err := c.Bind(&req); err != nil {
		l.Warn("create_hero_slide_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s, err := h.Svc.CreateHeroSlide(ctx, req)
	if err != nil {
		return catalogError(l, "create_hero_slide_error", err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *CatalogHTTP) UpdateHeroSlide(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_hero_slide")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_hero_slide_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	var req catalog.SlideInput
	if err := c.Bind(&req); err != nil {
		l.Warn("update_hero_slide_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s, err := h.Svc.UpdateHeroSlide(ctx, id, req)
	if err != nil {
		return catalogError(l, "update_hero_slide_error", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *CatalogHTTP) DeleteHeroSlide(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_hero_slide")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_hero_slide_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteHeroSlide(ctx, id); err != nil {
		return catalogError(l, "delete_hero_slide_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
