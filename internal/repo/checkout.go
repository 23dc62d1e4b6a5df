package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retrostylings/shop/internal/models"
)

// PriceQuote is the authoritative price and stock of a product (and variant)
// as read inside the checkout transaction.
type PriceQuote struct {
	ProductID    uuid.UUID
	VariantID    uuid.UUID
	ProductName  string
	Size         string
	Color        string
	UnitPrice    decimal.Decimal
	ProductStock int
	VariantStock int
}

// ListCartLines reads the owner's cart rows and locks them until the
// surrounding transaction ends.
func (r *GormRepo) ListCartLines(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetEffectivePrice returns gorm.ErrRecordNotFound when the product, or the
// variant under that product, no longer exists.
func (r *GormRepo) GetEffectivePrice(ctx context.Context, productID, variantID uuid.UUID) (*PriceQuote, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", productID).First(&p).Error; err != nil {
		return nil, err
	}

	q := &PriceQuote{
		ProductID:    p.ID,
		ProductName:  p.Name,
		UnitPrice:    p.EffectivePrice(),
		ProductStock: p.Stock,
	}

	if variantID != uuid.Nil {
		var v models.ProductVariant
		if err := r.DB.WithContext(ctx).
			Where("id = ? AND product_id = ?", variantID, productID).
			First(&v).Error; err != nil {
			return nil, err
		}
		q.VariantID = v.ID
		q.Size = v.Size
		q.Color = v.Color
		q.VariantStock = v.Stock
	}
	return q, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}

// DecrementStock subtracts qty from the product and, when variantID is set,
// from the variant. Each update only applies while enough stock remains;
// otherwise ErrStockConflict is returned and nothing further is touched.
func (r *GormRepo) DecrementStock(ctx context.Context, productID, variantID uuid.UUID, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}

	if variantID == uuid.Nil {
		return nil
	}

	res = r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ? AND product_id = ? AND stock >= ?", variantID, productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

// DeleteCartLines removes exactly the given rows of the owner's cart.
func (r *GormRepo) DeleteCartLines(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return ErrCartChanged
	}
	return nil
}
