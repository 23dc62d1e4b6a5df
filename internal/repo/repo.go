package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrStockConflict means a conditional stock decrement matched no row.
	ErrStockConflict = errors.New("stock conflict")
	// ErrCartChanged means cart rows read under lock were gone at delete time.
	ErrCartChanged = errors.New("cart changed")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// InTx runs fn inside one database transaction. Every call made through the
// repo handed to fn joins that transaction; fn returning an error rolls it back.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
