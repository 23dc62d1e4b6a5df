package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/retrostylings/shop/pkg/middleware/auth"
)

type Deps struct {
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Wishlist *WishlistHTTP
	Orders   *OrderHTTP
	Admin    *AdminHTTP

	JWTSecret []byte
	// Ready reports whether the store is reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := authmw.NewAuthMiddleware(d.JWTSecret)
	api := e.Group("/api/v1")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.GET("/auth/profile", d.Auth.Profile, mw.RequireAuth)

	api.GET("/products", d.Catalog.ListProducts, mw.Optional)
	api.GET("/products/:slug", d.Catalog.GetProduct, mw.Optional)
	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/hero-slides", d.Catalog.ListHeroSlides)

	cart := api.Group("/cart", mw.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.PUT("/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/:id", d.Cart.RemoveItem)

	wishlist := api.Group("/wishlist", mw.RequireAuth)
	wishlist.GET("", d.Wishlist.List)
	wishlist.POST("", d.Wishlist.Add)
	wishlist.DELETE("/:id", d.Wishlist.Remove)

	orders := api.Group("/orders", mw.RequireAuth)
	orders.POST("", d.Orders.PlaceOrder)
	orders.GET("", d.Orders.ListOrders)
	orders.GET("/:id", d.Orders.GetOrder)

	admin := api.Group("/admin", mw.RequireAdmin)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PUT("/products/:id", d.Catalog.UpdateProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)

	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.PUT("/categories/:id", d.Catalog.UpdateCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)

	admin.GET("/hero-slides", d.Catalog.ListAllHeroSlides)
	admin.POST("/hero-slides", d.Catalog.CreateHeroSlide)
	admin.PUT("/hero-slides/:id", d.Catalog.UpdateHeroSlide)
	admin.DELETE("/hero-slides/:id", d.Catalog.DeleteHeroSlide)

	admin.GET("/stats", d.Admin.Stats)
	admin.GET("/users", d.Admin.ListUsers)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.PUT("/orders/:id/status", d.Admin.UpdateOrderStatus)
}
