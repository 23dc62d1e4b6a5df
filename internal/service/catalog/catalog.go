package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/pkg/db"
	"github.com/retrostylings/shop/pkg/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// maxSearchHits caps how many ids a full-text query may feed into the
// filtered product listing.
const maxSearchHits = 500

type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchIDs(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo *repo.GormRepo
	// Search is optional; without it text search falls back to LIKE.
	Search Indexer
}

type ListQuery struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	IsNew    bool
	// Status is honoured only when AllStatuses is set; otherwise only active
	// products are listed.
	Status      string
	AllStatuses bool
	Sort        string
	Offset      int
	Limit       int
}

func (s *CatalogService) ListProducts(ctx context.Context, q ListQuery) (int64, []models.Product, error) {
	f := repo.ProductFilter{
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		IsNew:    q.IsNew,
		Sort:     q.Sort,
		Offset:   q.Offset,
		Limit:    q.Limit,
		Status:   models.ProductActive,
	}
	if q.AllStatuses {
		f.Status = q.Status
	}
	if f.Status != "" && !validStatus(f.Status) {
		return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return 0, nil, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrValidation)
	}

	if c := strings.TrimSpace(q.Category); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.CategoryID = &id
		} else {
			f.CategorySlug = c
		}
	}

	if text := strings.TrimSpace(q.Search); text != "" {
		f.Search = text
		if s.Search != nil {
			_, ids, err := s.Search.SearchIDs(ctx, text, 0, maxSearchHits)
			if err != nil {
				logging.FromContext(ctx).Warn("product_search_fallback", "reason", "search index unavailable", "error", err)
			} else {
				f.Search = ""
				f.IDs = ids
			}
		}
	}

	return s.Repo.ListProducts(ctx, f)
}

// GetProductBySlug hides non-active products unless includeHidden is set.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string, includeHidden bool) (*models.Product, error) {
	p, err := s.Repo.GetProductBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !includeHidden && p.Status != models.ProductActive) {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, slug)
	}
	return p, err
}

type VariantInput struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

type ProductInput struct {
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	Description       string           `json:"description"`
	Image             string           `json:"image"`
	Brand             string           `json:"brand"`
	SKU               string           `json:"sku"`
	Price             decimal.Decimal  `json:"price"`
	DiscountPrice     *decimal.Decimal `json:"discountPrice"`
	OnSale            bool             `json:"onSale"`
	IsNew             bool             `json:"isNew"`
	Stock             int              `json:"stock"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
	Status            string           `json:"status"`
	CategoryID        *uuid.UUID       `json:"categoryId"`
	Variants          []VariantInput   `json:"variants"`
}

func (in ProductInput) toModel() (*models.Product, []models.ProductVariant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if in.DiscountPrice != nil && in.DiscountPrice.IsNegative() {
		return nil, nil, fmt.Errorf("%w: discount price cannot be negative", ErrValidation)
	}
	if in.Stock < 0 {
		return nil, nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = models.ProductActive
	}
	if !validStatus(status) {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, nil, fmt.Errorf("%w: slug is required", ErrValidation)
	}

	p := &models.Product{
		Name:              name,
		Slug:              slug,
		Description:       in.Description,
		Image:             in.Image,
		Brand:             in.Brand,
		Price:             in.Price.Round(2),
		OnSale:            in.OnSale,
		IsNew:             in.IsNew,
		Stock:             in.Stock,
		LowStockThreshold: 5,
		Status:            status,
		CategoryID:        in.CategoryID,
	}
	if sku := strings.TrimSpace(in.SKU); sku != "" {
		p.SKU = &sku
	}
	if in.DiscountPrice != nil {
		p.DiscountPrice = decimal.NewNullDecimal(in.DiscountPrice.Round(2))
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, nil, fmt.Errorf("%w: low stock threshold cannot be negative", ErrValidation)
		}
		p.LowStockThreshold = *in.LowStockThreshold
	}

	var variants []models.ProductVariant
	if in.Variants != nil {
		variants = make([]models.ProductVariant, 0, len(in.Variants))
		for _, v := range in.Variants {
			if v.Stock < 0 {
				return nil, nil, fmt.Errorf("%w: variant stock cannot be negative", ErrValidation)
			}
			variants = append(variants, models.ProductVariant{Size: v.Size, Color: v.Color, Stock: v.Stock})
		}
	}
	return p, variants, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, variants, err := in.toModel()
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug or sku already exists", ErrConflict)
		}
		return nil, err
	}
	s.mirror(ctx, p)
	return p, nil
}

// UpdateProduct replaces the product's fields. Variants are replaced only when
// the input carries a variants list.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	p, variants, err := in.toModel()
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.Repo.UpdateProduct(ctx, p, variants); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug or sku already exists", ErrConflict)
		}
		return nil, err
	}
	s.mirror(ctx, p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return err
	}
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "product_id", id, "error", err)
		}
	}
	return nil
}

// mirror pushes the product to the search index; failures are only logged.
func (s *CatalogService) mirror(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
}

func validStatus(s string) bool {
	switch s {
	case models.ProductActive, models.ProductDraft, models.ProductArchived:
		return true
	}
	return false
}

func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
