package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

type WishlistEntry struct {
	WishlistID uuid.UUID      `json:"wishlistId"`
	AddedAt    time.Time      `json:"addedAt"`
	Product    models.Product `json:"product"`
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return err
	}
	return s.Repo.AddToWishlist(ctx, &models.WishlistItem{UserID: userID, ProductID: productID})
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]WishlistEntry, error) {
	lines, err := s.Repo.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]WishlistEntry, 0, len(lines))
	for _, ln := range lines {
		out = append(out, WishlistEntry{WishlistID: ln.Item.ID, AddedAt: ln.Item.CreatedAt, Product: ln.Product})
	}
	return out, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	err := s.Repo.DeleteFromWishlist(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: wishlist item %s", ErrNotFound, id)
	}
	return err
}
