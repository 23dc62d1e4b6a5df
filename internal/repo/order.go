package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retrostylings/shop/internal/models"
)

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// GetOrder only finds orders owned by userID.
func (r *GormRepo) GetOrder(ctx context.Context, userID, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type AdminOrderRow struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	UserName      string          `json:"user_name"`
	UserEmail     string          `json:"user_email"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus string          `json:"payment_status"`
	OrderStatus   string          `json:"order_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (r *GormRepo) adminOrders(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.user_id, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email, " +
			"orders.total, orders.payment_status, orders.order_status, orders.created_at").
		Joins("LEFT JOIN users ON users.id = orders.user_id")
}

func (r *GormRepo) ListAllOrders(ctx context.Context, status string, offset, limit int) (int64, []AdminOrderRow, error) {
	count := r.DB.WithContext(ctx).Model(&models.Order{})
	list := r.adminOrders(ctx)
	if status != "" {
		count = count.Where("order_status = ?", status)
		list = list.Where("orders.order_status = ?", status)
	}

	var total int64
	if err := count.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	rows := make([]AdminOrderRow, 0, limit)
	if err := list.Order("orders.created_at DESC").Order("orders.id DESC").
		Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return 0, nil, err
	}
	return total, rows, nil
}

// UpdateOrderStatus locks the order, lets check veto the move from its current
// status, then stores next.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next string, check func(current string) error) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&o).Error; err != nil {
			return err
		}
		if err := check(o.OrderStatus); err != nil {
			return err
		}
		if err := tx.Model(&o).Update("order_status", next).Error; err != nil {
			return err
		}
		return tx.Preload("Items").Where("id = ?", id).First(&o).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type Stats struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	LowStock      int64           `json:"low_stock"`
	RecentOrders  []AdminOrderRow `json:"recent_orders"`
}

func (r *GormRepo) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Where("status = ?", models.ProductActive).Count(&s.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&s.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).
		Where("status = ? AND stock <= low_stock_threshold", models.ProductActive).
		Count(&s.LowStock).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&models.Order{}).
		Select("SUM(total)").
		Where("payment_status = ?", models.PaymentPaid).
		Row().Scan(&revenue); err != nil {
		return nil, err
	}
	s.TotalRevenue = decimal.Zero
	if revenue.Valid {
		s.TotalRevenue = revenue.Decimal
	}

	s.RecentOrders = make([]AdminOrderRow, 0, 5)
	if err := r.adminOrders(ctx).Order("orders.created_at DESC").Order("orders.id DESC").
		Limit(5).Scan(&s.RecentOrders).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
