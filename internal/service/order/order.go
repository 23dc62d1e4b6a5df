package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/notify"
	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/pkg/db"
	"github.com/retrostylings/shop/pkg/logging"
)

type Dispatcher interface {
	Dispatch(m notify.Message) bool
}

type OrderService struct {
	Repo           *repo.GormRepo
	Pricing        Pricing
	MissingProduct MissingProductPolicy
	// Timeout bounds the whole checkout transaction; zero means no bound.
	Timeout    time.Duration
	Notifier   Dispatcher
	AdminEmail string
}

type PlaceOrderRequest struct {
	UserID          uuid.UUID
	Email           string
	ShippingAddress string
	Phone           string
}

type Receipt struct {
	Order models.Order
}

type pricedLine struct {
	item  models.CartItem
	quote *repo.PriceQuote
}

// PlaceOrder turns the caller's cart into an order in a single transaction:
// order row, line items at the price read now, stock decrements and removal
// of the cart rows either all commit or none do. The transaction is detached
// from ctx cancellation and bounded by Timeout instead. Notifications are
// queued only after commit.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Receipt, error) {
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if req.ShippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	if req.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	txCtx := context.WithoutCancel(ctx)
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(txCtx, s.Timeout)
		defer cancel()
	}

	var placed models.Order
	err := s.Repo.InTx(txCtx, func(tx *repo.GormRepo) error {
		o, err := s.placeOrder(txCtx, tx, req)
		if err != nil {
			return err
		}
		placed = *o
		return nil
	})
	if err != nil {
		return nil, s.classify(txCtx, err)
	}

	s.notify(ctx, req, &placed)
	return &Receipt{Order: placed}, nil
}

func (s *OrderService) placeOrder(ctx context.Context, tx *repo.GormRepo, req PlaceOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx)

	items, err := tx.ListCartLines(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]pricedLine, 0, len(items))
	for _, it := range items {
		q, err := tx.GetEffectivePrice(ctx, it.ProductID, it.VariantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.MissingProduct == FailMissing {
				return nil, &UnavailableError{ProductID: it.ProductID, VariantID: it.VariantID}
			}
			l.Warn("checkout_line_skipped", "reason", "product unavailable",
				"product_id", it.ProductID, "variant_id", it.VariantID, "cart_item_id", it.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, pricedLine{item: it, quote: q})
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := checkStock(lines); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, ln := range lines {
		subtotal = subtotal.Add(ln.quote.UnitPrice.Mul(decimal.NewFromInt(int64(ln.item.Quantity))))
	}
	subtotal = subtotal.Round(2)
	shipping := s.Pricing.Shipping(subtotal)

	o := &models.Order{
		UserID:          req.UserID,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		Total:           subtotal.Add(shipping),
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderProcessing,
	}
	if err := tx.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, ln := range lines {
		oi := models.OrderItem{
			OrderID:     o.ID,
			ProductID:   ln.item.ProductID,
			ProductName: ln.quote.ProductName,
			Size:        ln.quote.Size,
			Color:       ln.quote.Color,
			Quantity:    ln.item.Quantity,
			UnitPrice:   ln.quote.UnitPrice,
		}
		if ln.item.HasVariant() {
			vid := ln.item.VariantID
			oi.VariantID = &vid
		}
		orderItems = append(orderItems, oi)
	}
	if err := tx.CreateOrderItems(ctx, orderItems); err != nil {
		return nil, err
	}
	o.Items = orderItems

	for _, ln := range lines {
		err := tx.DecrementStock(ctx, ln.item.ProductID, ln.item.VariantID, ln.item.Quantity)
		if errors.Is(err, repo.ErrStockConflict) {
			return nil, &StockError{Shortages: []Shortage{shortageOf(ln, ln.item.Quantity, 0)}}
		}
		if err != nil {
			return nil, err
		}
	}

	// skipped lines are cleared too; the cart is emptied as a whole
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if err := tx.DeleteCartLines(ctx, req.UserID, ids); err != nil {
		return nil, err
	}

	return o, nil
}

// checkStock aggregates demand per product and per variant across all lines
// and reports every product that cannot be covered.
func checkStock(lines []pricedLine) error {
	productDemand := map[uuid.UUID]int{}
	variantDemand := map[uuid.UUID]int{}
	for _, ln := range lines {
		productDemand[ln.item.ProductID] += ln.item.Quantity
		if ln.item.HasVariant() {
			variantDemand[ln.item.VariantID] += ln.item.Quantity
		}
	}

	var shortages []Shortage
	reported := map[uuid.UUID]bool{}
	for _, ln := range lines {
		if ln.item.HasVariant() {
			vid := ln.item.VariantID
			if want := variantDemand[vid]; want > ln.quote.VariantStock && !reported[vid] {
				reported[vid] = true
				shortages = append(shortages, shortageOf(ln, want, ln.quote.VariantStock))
				continue
			}
		}
		pid := ln.item.ProductID
		if want := productDemand[pid]; want > ln.quote.ProductStock && !reported[pid] {
			reported[pid] = true
			s := shortageOf(ln, want, ln.quote.ProductStock)
			s.VariantID = nil
			shortages = append(shortages, s)
		}
	}

	if len(shortages) > 0 {
		return &StockError{Shortages: shortages}
	}
	return nil
}

func shortageOf(ln pricedLine, requested, available int) Shortage {
	s := Shortage{
		ProductID: ln.item.ProductID,
		Name:      ln.quote.ProductName,
		Requested: requested,
		Available: available,
	}
	if ln.item.HasVariant() {
		vid := ln.item.VariantID
		s.VariantID = &vid
	}
	return s
}

func (s *OrderService) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrProductUnavailable):
		return err
	case errors.Is(err, repo.ErrCartChanged):
		return fmt.Errorf("%w: cart changed during checkout", ErrConflict)
	case db.IsUnavailable(err), ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("place order: %w", err)
	}
}

func (s *OrderService) notify(ctx context.Context, req PlaceOrderRequest, o *models.Order) {
	if s.Notifier == nil {
		return
	}

	items := make([]notify.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, notify.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	base := notify.Message{
		OrderID:         o.ID,
		CustomerEmail:   req.Email,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		Subtotal:        o.Subtotal,
		Shipping:        o.ShippingFee,
		Total:           o.Total,
		Items:           items,
		PlacedAt:        o.CreatedAt,
	}

	customer := base
	customer.Audience = notify.AudienceCustomer
	customer.To = req.Email

	admin := base
	admin.Audience = notify.AudienceAdmin
	admin.To = s.AdminEmail

	l := logging.FromContext(ctx)
	for _, m := range []notify.Message{customer, admin} {
		if !s.Notifier.Dispatch(m) {
			l.Warn("order_notification_not_queued", "order_id", o.ID, "audience", m.Audience)
		}
	}
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

func (s *OrderService) GetOrder(ctx context.Context, userID, id uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return o, err
}
