package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions lists the fulfillment moves an admin may make. Delivered and
// cancelled orders are final.
var transitions = map[string][]string{
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func knownStatus(s string) bool {
	switch s {
	case models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

type AdminService struct {
	Repo *repo.GormRepo
}

func (s *AdminService) Stats(ctx context.Context) (*repo.Stats, error) {
	return s.Repo.GetStats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *AdminService) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []repo.AdminOrderRow, error) {
	if status != "" && !knownStatus(status) {
		return 0, nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	return s.Repo.ListAllOrders(ctx, status, offset, limit)
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next string) (*models.Order, error) {
	if !knownStatus(next) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, next)
	}

	o, err := s.Repo.UpdateOrderStatus(ctx, id, next, func(current string) error {
		if !CanTransition(current, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return o, err
}
