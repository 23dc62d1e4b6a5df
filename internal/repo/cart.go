package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retrostylings/shop/internal/models"
)

// CartLine is a cart row together with the product and variant it points at.
// Product is nil when the product has been removed since the line was added.
type CartLine struct {
	Item    models.CartItem
	Product *models.Product
	Variant *models.ProductVariant
}

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]CartLine, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []CartLine{}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	variantIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
		if it.HasVariant() {
			variantIDs = append(variantIDs, it.VariantID)
		}
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byProduct[products[i].ID] = &products[i]
	}

	byVariant := map[uuid.UUID]*models.ProductVariant{}
	if len(variantIDs) > 0 {
		var variants []models.ProductVariant
		if err := r.DB.WithContext(ctx).Where("id IN ?", variantIDs).Find(&variants).Error; err != nil {
			return nil, err
		}
		for i := range variants {
			byVariant[variants[i].ID] = &variants[i]
		}
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		line := CartLine{Item: it, Product: byProduct[it.ProductID]}
		if it.HasVariant() {
			line.Variant = byVariant[it.VariantID]
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AddToCart merges into an existing (owner, product, variant) row by adding
// the quantity, or inserts a new row. The upsert is a single statement so
// concurrent adds of the same line always merge.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	db := r.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(item).Error
	if err != nil {
		return err
	}

	// item.ID is the freshly generated id even when the row already existed
	var stored models.CartItem
	if err := db.Where("user_id = ? AND product_id = ? AND variant_id = ?", item.UserID, item.ProductID, item.VariantID).
		First(&stored).Error; err != nil {
		return err
	}
	*item = stored
	return nil
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
