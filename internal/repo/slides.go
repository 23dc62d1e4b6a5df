package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retrostylings/shop/internal/models"
)

func (r *GormRepo) ListHeroSlides(ctx context.Context, onlyActive bool) ([]models.HeroSlide, error) {
	q := r.DB.WithContext(ctx).Model(&models.HeroSlide{})
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var slides []models.HeroSlide
	if err := q.Order("position ASC").Order("created_at ASC").Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *GormRepo) CreateHeroSlide(ctx context.Context, s *models.HeroSlide) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) UpdateHeroSlide(ctx context.Context, s *models.HeroSlide) error {
	res := r.DB.WithContext(ctx).Model(&models.HeroSlide{}).
		Where("id = ?", s.ID).
		Select("title", "subtitle", "description", "image", "active", "position").
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.DB.WithContext(ctx).Where("id = ?", s.ID).First(s).Error
}

func (r *GormRepo) DeleteHeroSlide(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.HeroSlide{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
