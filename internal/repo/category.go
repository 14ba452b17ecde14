package repo

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context, q listing.Query) (listing.Page[models.Category], error) {
	return listing.Find[models.Category](ctx, r.DB, q)
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).Preload("Products").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Omit("Products").Save(category).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.DB, &models.Category{}, id)
}
