package repo

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) ListRegions(ctx context.Context, q listing.Query) (listing.Page[models.Region], error) {
	return listing.Find[models.Region](ctx, r.DB, q)
}

func (r *GormRepo) GetRegion(ctx context.Context, id uint) (*models.Region, error) {
	var region models.Region
	if err := r.DB.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *GormRepo) RegionExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Region{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateRegion(ctx context.Context, region *models.Region) error {
	return r.DB.WithContext(ctx).Create(region).Error
}

func (r *GormRepo) SaveRegion(ctx context.Context, region *models.Region) error {
	return r.DB.WithContext(ctx).Save(region).Error
}

func (r *GormRepo) DeleteRegion(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.DB, &models.Region{}, id)
}
