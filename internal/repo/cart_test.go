package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo/repotest"
)

func TestAddToCart_MergesSameLine(t *testing.T) {
	db := repotest.NewDB(t)
	r := New(db)
	ctx := context.Background()

	u := repotest.SeedUser(t, db, "cart@example.com", "user")
	p := repotest.SeedProduct(t, db, "Hoodie", 900, 10)
	v := repotest.SeedVariant(t, db, p.ID, "L", 5)

	first := &models.CartItem{UserID: u.ID, ProductID: p.ID, VariantID: v.ID, Quantity: 1}
	require.NoError(t, r.AddToCart(ctx, first))

	second := &models.CartItem{UserID: u.ID, ProductID: p.ID, VariantID: v.ID, Quantity: 2}
	require.NoError(t, r.AddToCart(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	plain := &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 1}
	require.NoError(t, r.AddToCart(ctx, plain))
	assert.NotEqual(t, first.ID, plain.ID)

	lines, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Hoodie", lines[0].Product.Name)
	require.NotNil(t, lines[0].Variant)
	assert.Equal(t, "L", lines[0].Variant.Size)
	assert.Nil(t, lines[1].Variant)
}

func TestAddToCart_MergesWithConcurrentInsert(t *testing.T) {
	db := repotest.NewDB(t)
	r := New(db)
	ctx := context.Background()

	u := repotest.SeedUser(t, db, "race@example.com", "user")
	p := repotest.SeedProduct(t, db, "Cap", 120, 10)

	// another request lands the same line right before this insert runs
	var raced bool
	var otherID uuid.UUID
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:concurrent_add", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "cart_items" {
			return
		}
		raced = true
		otherID = uuid.New()
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO cart_items (id, user_id, product_id, variant_id, quantity, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			otherID, u.ID, p.ID, uuid.Nil, 1, time.Now().UTC()).Error)
	}))

	item := &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 2}
	require.NoError(t, r.AddToCart(ctx, item))
	require.True(t, raced)
	assert.Equal(t, otherID, item.ID)
	assert.Equal(t, 3, item.Quantity)

	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpdateAndDeleteCartItem_ScopedToOwner(t *testing.T) {
	db := repotest.NewDB(t)
	r := New(db)
	ctx := context.Background()

	owner := repotest.SeedUser(t, db, "owner@example.com", "user")
	other := repotest.SeedUser(t, db, "other@example.com", "user")
	p := repotest.SeedProduct(t, db, "Scarf", 150, 10)
	line := repotest.SeedCartLine(t, db, owner.ID, p.ID, uuid.Nil, 1)

	_, err := r.UpdateCartQuantity(ctx, other.ID, line.ID, 4)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := r.UpdateCartQuantity(ctx, owner.ID, line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	assert.ErrorIs(t, r.DeleteCartItem(ctx, other.ID, line.ID), gorm.ErrRecordNotFound)
	require.NoError(t, r.DeleteCartItem(ctx, owner.ID, line.ID))
}

func TestWishlist_Idempotent(t *testing.T) {
	db := repotest.NewDB(t)
	r := New(db)
	ctx := context.Background()

	u := repotest.SeedUser(t, db, "wish@example.com", "user")
	p := repotest.SeedProduct(t, db, "Boots", 1200, 3)

	require.NoError(t, r.AddToWishlist(ctx, &models.WishlistItem{UserID: u.ID, ProductID: p.ID}))
	require.NoError(t, r.AddToWishlist(ctx, &models.WishlistItem{UserID: u.ID, ProductID: p.ID}))

	lines, err := r.GetWishlist(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Boots", lines[0].Product.Name)

	require.NoError(t, r.DeleteFromWishlist(ctx, u.ID, lines[0].Item.ID))
	assert.ErrorIs(t, r.DeleteFromWishlist(ctx, u.ID, lines[0].Item.ID), gorm.ErrRecordNotFound)
}
