package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

func commentRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", summary).Preload("Product", summary)
}

func (r *GormRepo) ListComments(ctx context.Context, q listing.Query) (listing.Page[models.Comment], error) {
	return listing.Find[models.Comment](ctx, r.DB, q, commentRelations)
}

func (r *GormRepo) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB.WithContext(ctx).Scopes(commentRelations).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Omit("Author", "Product").Create(comment).Error
}

func (r *GormRepo) SaveComment(ctx context.Context, comment *models.Comment) error {
	return r.DB.WithContext(ctx).Omit("Author", "Product").Save(comment).Error
}

func (r *GormRepo) DeleteComment(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.DB, &models.Comment{}, id)
}
