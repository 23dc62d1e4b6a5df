package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/pkg/util"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AddCartRequest struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId"`
	Quantity  int        `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

// PlaceOrderRequest carries only delivery details. Amounts are always
// computed server side, so a client supplied total is never read.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
}

type PlaceOrderResponse struct {
	OrderID  uuid.UUID       `json:"orderId"`
	Total    decimal.Decimal `json:"total"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every checkout failure. Error holds the
// machine readable kind (EmptyCart, InsufficientStock, ...).
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Product  any    `json:"product,omitempty"`
	Products any    `json:"products,omitempty"`
}

type Page[T any] struct {
	Data []T       `json:"data"`
	Meta util.Meta `json:"meta"`
}
