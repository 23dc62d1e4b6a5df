// Package repotest opens throwaway in-memory databases for tests.
package repotest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/retrostylings/shop/internal/models"
)

// NewDB returns a migrated sqlite database. The pool holds one connection so
// every test sees the same in-memory schema and transactions run one at a time.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "user " + email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedProduct creates an active product priced at price with the given stock.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:   name,
		Slug:   slugOf(name),
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Status: models.ProductActive,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, size string, stock int) *models.ProductVariant {
	t.Helper()
	v := &models.ProductVariant{ProductID: productID, Size: size, Color: "black", Stock: stock}
	require.NoError(t, db.Create(v).Error)
	return v
}

func SeedCartLine(t *testing.T, db *gorm.DB, userID, productID, variantID uuid.UUID, qty int) *models.CartItem {
	t.Helper()
	c := &models.CartItem{UserID: userID, ProductID: productID, VariantID: variantID, Quantity: qty}
	require.NoError(t, db.Create(c).Error)
	return c
}

func slugOf(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out) + "-" + uuid.NewString()[:8]
}
