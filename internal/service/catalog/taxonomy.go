package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
	"github.com/retrostylings/shop/pkg/db"
)

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

type CategoryInput struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

func (in CategoryInput) toModel() (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	return &models.Category{Name: name, Slug: slug, Image: in.Image}, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category slug already exists", ErrConflict)
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.Repo.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category slug already exists", ErrConflict)
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return err
}

func (s *CatalogService) ListHeroSlides(ctx context.Context, onlyActive bool) ([]models.HeroSlide, error) {
	return s.Repo.ListHeroSlides(ctx, onlyActive)
}

type SlideInput struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Active      *bool  `json:"active"`
	Position    int    `json:"position"`
}

func (in SlideInput) toModel() (*models.HeroSlide, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &models.HeroSlide{
		Title:       title,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		Image:       in.Image,
		Active:      active,
		Position:    in.Position,
	}, nil
}

func (s *CatalogService) CreateHeroSlide(ctx context.Context, in SlideInput) (*models.HeroSlide, error) {
	h, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateHeroSlide(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *CatalogService) UpdateHeroSlide(ctx context.Context, id uuid.UUID, in SlideInput) (*models.HeroSlide, error) {
	h, err := in.toModel()
	if err != nil {
		return nil, err
	}
	h.ID = id
	if err := s.Repo.UpdateHeroSlide(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: hero slide %s", ErrNotFound, id)
		}
		return nil, err
	}
	return h, nil
}

func (s *CatalogService) DeleteHeroSlide(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteHeroSlide(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: hero slide %s", ErrNotFound, id)
	}
	return err
}
