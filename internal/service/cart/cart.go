package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/internal/service/order"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type CartService struct {
	Repo    *repo.GormRepo
	Pricing order.Pricing
}

type LineView struct {
	ID             uuid.UUID           `json:"id"`
	ProductID      uuid.UUID           `json:"productId"`
	VariantID      *uuid.UUID          `json:"variantId,omitempty"`
	Quantity       int                 `json:"quantity"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Image          string              `json:"image"`
	Price          decimal.Decimal     `json:"price"`
	DiscountPrice  decimal.NullDecimal `json:"discountPrice"`
	OnSale         bool                `json:"onSale"`
	EffectivePrice decimal.Decimal     `json:"effectivePrice"`
	Size           string              `json:"size,omitempty"`
	Color          string              `json:"color,omitempty"`
	InStock        bool                `json:"inStock"`
}

// View is a preview only; checkout recomputes every amount.
type View struct {
	Items    []LineView      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// GetCart leaves out lines whose product no longer exists.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	lines, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &View{Items: make([]LineView, 0, len(lines)), Subtotal: decimal.Zero}
	for _, ln := range lines {
		if ln.Product == nil {
			continue
		}
		lv := LineView{
			ID:             ln.Item.ID,
			ProductID:      ln.Item.ProductID,
			Quantity:       ln.Item.Quantity,
			Name:           ln.Product.Name,
			Slug:           ln.Product.Slug,
			Image:          ln.Product.Image,
			Price:          ln.Product.Price,
			DiscountPrice:  ln.Product.DiscountPrice,
			OnSale:         ln.Product.OnSale,
			EffectivePrice: ln.Product.EffectivePrice(),
			InStock:        ln.Product.Stock >= ln.Item.Quantity,
		}
		if ln.Item.HasVariant() {
			vid := ln.Item.VariantID
			lv.VariantID = &vid
			if ln.Variant == nil {
				continue
			}
			lv.Size = ln.Variant.Size
			lv.Color = ln.Variant.Color
			lv.InStock = lv.InStock && ln.Variant.Stock >= ln.Item.Quantity
		}
		v.Items = append(v.Items, lv)
		v.Subtotal = v.Subtotal.Add(lv.EffectivePrice.Mul(decimal.NewFromInt(int64(lv.Quantity))))
	}

	if len(v.Items) == 0 {
		v.Shipping = decimal.Zero
	} else {
		v.Shipping = s.Pricing.Shipping(v.Subtotal)
	}
	v.Total = v.Subtotal.Add(v.Shipping)
	return v, nil
}

type AddRequest struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int
}

func (s *CartService) AddToCart(ctx context.Context, req AddRequest) (*models.CartItem, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	p, err := s.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, req.ProductID)
		}
		return nil, err
	}
	if p.Status != models.ProductActive {
		return nil, fmt.Errorf("%w: product %s is not for sale", ErrNotFound, req.ProductID)
	}
	if req.VariantID != uuid.Nil && !hasVariant(p, req.VariantID) {
		return nil, fmt.Errorf("%w: variant %s", ErrNotFound, req.VariantID)
	}

	item := &models.CartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func hasVariant(p *models.Product, id uuid.UUID) bool {
	for _, v := range p.Variants {
		if v.ID == id {
			return true
		}
	}
	return false
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	item, err := s.Repo.UpdateCartQuantity(ctx, userID, id, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart item %s", ErrNotFound, id)
	}
	return item, err
}

func (s *CartService) RemoveItem(ctx context.Context, userID, id uuid.UUID) error {
	err := s.Repo.DeleteCartItem(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %s", ErrNotFound, id)
	}
	return err
}
