package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/internal/repo"
	"github.com/retrostylings/shop/internal/repo/repotest"
)

type fakeIndex struct {
	indexed []uuid.UUID
	deleted []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) SearchIDs(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Category, map[string]*models.Product) {
	t.Helper()
	shoes := &models.Category{Name: "Shoes", Slug: "shoes"}
	require.NoError(t, db.Create(shoes).Error)

	ps := map[string]*models.Product{
		"Runner":  repotest.SeedProduct(t, db, "Runner", 1500, 10),
		"Loafer":  repotest.SeedProduct(t, db, "Loafer", 900, 2),
		"Tote":    repotest.SeedProduct(t, db, "Tote", 400, 7),
		"Sandals": repotest.SeedProduct(t, db, "Sandals", 600, 4),
	}
	for _, n := range []string{"Runner", "Loafer", "Sandals"} {
		require.NoError(t, db.Model(ps[n]).Update("category_id", shoes.ID).Error)
	}
	require.NoError(t, db.Model(ps["Runner"]).Updates(map[string]any{"is_new": true, "description": "Lightweight running shoe"}).Error)
	require.NoError(t, db.Model(ps["Sandals"]).Update("status", models.ProductDraft).Error)
	return shoes, ps
}

func TestListProducts_Filters(t *testing.T) {
	db := repotest.NewDB(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()
	shoes, _ := seedCatalog(t, db)

	min := decimal.NewFromInt(500)
	max := decimal.NewFromInt(1000)

	tests := []struct {
		name  string
		q     ListQuery
		want  []string
		total int64
	}{
		{name: "public sees active only", q: ListQuery{Sort: "price_asc"}, want: []string{"Tote", "Loafer", "Runner"}, total: 3},
		{name: "category by slug", q: ListQuery{Category: "shoes", Sort: "price_desc"}, want: []string{"Runner", "Loafer"}, total: 2},
		{name: "category by id", q: ListQuery{Category: shoes.ID.String(), Sort: "price_asc"}, want: []string{"Loafer", "Runner"}, total: 2},
		{name: "price range", q: ListQuery{MinPrice: &min, MaxPrice: &max}, want: []string{"Loafer"}, total: 1},
		{name: "like search on description", q: ListQuery{Search: "RUNNING"}, want: []string{"Runner"}, total: 1},
		{name: "new only", q: ListQuery{IsNew: true}, want: []string{"Runner"}, total: 1},
		{name: "popular is low stock first", q: ListQuery{Sort: "popular"}, want: []string{"Loafer", "Tote", "Runner"}, total: 3},
		{name: "admin by status", q: ListQuery{AllStatuses: true, Status: models.ProductDraft}, want: []string{"Sandals"}, total: 1},
		{name: "admin all statuses", q: ListQuery{AllStatuses: true, Sort: "price_asc"}, want: []string{"Tote", "Sandals", "Loafer", "Runner"}, total: 4},
		{name: "pagination", q: ListQuery{Sort: "price_asc", Offset: 1, Limit: 1}, want: []string{"Loafer"}, total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.q.Limit == 0 {
				tt.q.Limit = 20
			}
			total, items, err := svc.ListProducts(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.want, names(items))
		})
	}

	_, _, err := svc.ListProducts(ctx, ListQuery{MinPrice: &max, MaxPrice: &min, Limit: 20})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListProducts_UsesSearchIndex(t *testing.T) {
	db := repotest.NewDB(t)
	idx := &fakeIndex{}
	svc := &CatalogService{Repo: repo.New(db), Search: idx}
	ctx := context.Background()
	_, ps := seedCatalog(t, db)

	idx.hits = []uuid.UUID{ps["Tote"].ID, ps["Sandals"].ID}
	_, items, err := svc.ListProducts(ctx, ListQuery{Search: "bag", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tote"}, names(items))

	idx.hits = []uuid.UUID{}
	total, items, err := svc.ListProducts(ctx, ListQuery{Search: "nothing", Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	idx.err = errors.New("es down")
	_, items, err = svc.ListProducts(ctx, ListQuery{Search: "loaf", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Loafer"}, names(items))
}

func TestProductLifecycle(t *testing.T) {
	db := repotest.NewDB(t)
	idx := &fakeIndex{}
	svc := &CatalogService{Repo: repo.New(db), Search: idx}
	ctx := context.Background()

	discount := decimal.RequireFromString("799.99")
	p, err := svc.CreateProduct(ctx, ProductInput{
		Name:          "Retro Bomber Jacket",
		Price:         decimal.NewFromInt(999),
		DiscountPrice: &discount,
		OnSale:        true,
		Stock:         5,
		Variants:      []VariantInput{{Size: "M", Stock: 2}, {Size: "L", Stock: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "retro-bomber-jacket", p.Slug)
	assert.Equal(t, "799.99", p.EffectivePrice().StringFixed(2))
	assert.Equal(t, []uuid.UUID{p.ID}, idx.indexed)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Retro Bomber Jacket", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.GetProductBySlug(ctx, "retro-bomber-jacket", false)
	require.NoError(t, err)
	assert.Len(t, got.Variants, 2)

	updated, err := svc.UpdateProduct(ctx, p.ID, ProductInput{
		Name:   "Retro Bomber Jacket",
		Price:  decimal.NewFromInt(899),
		Stock:  4,
		Status: models.ProductDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, "899.00", updated.EffectivePrice().StringFixed(2))
	assert.Len(t, updated.Variants, 2)

	_, err = svc.GetProductBySlug(ctx, "retro-bomber-jacket", false)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetProductBySlug(ctx, "retro-bomber-jacket", true)
	assert.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, uuid.New(), ProductInput{Name: "x", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Bad", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrNotFound)
}

func TestCategoriesAndSlides(t *testing.T) {
	db := repotest.NewDB(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Vintage Tees"})
	require.NoError(t, err)
	assert.Equal(t, "vintage-tees", c.Slug)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Vintage  Tees!"})
	assert.ErrorIs(t, err, ErrConflict)

	c, err = svc.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Tees", Slug: "tees"})
	require.NoError(t, err)
	assert.Equal(t, "tees", c.Slug)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), ErrNotFound)

	off := false
	_, err = svc.CreateHeroSlide(ctx, SlideInput{Title: "Summer", Position: 1})
	require.NoError(t, err)
	hidden, err := svc.CreateHeroSlide(ctx, SlideInput{Title: "Winter", Active: &off, Position: 2})
	require.NoError(t, err)

	active, err := svc.ListHeroSlides(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Summer", active[0].Title)

	all, err := svc.ListHeroSlides(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	on := true
	_, err = svc.UpdateHeroSlide(ctx, hidden.ID, SlideInput{Title: "Winter", Active: &on})
	require.NoError(t, err)
	active, err = svc.ListHeroSlides(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = svc.CreateHeroSlide(ctx, SlideInput{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, svc.DeleteHeroSlide(ctx, uuid.New()), ErrNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "retro-70-s-denim", Slugify("  Retro 70's Denim "))
	assert.Equal(t, "a-b", Slugify("a -- b--"))
	assert.Equal(t, "", Slugify("!!!"))
}
