package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

type StarStat struct {
	ProductID uuid.UUID
	Total     int64
	Count     int64
}

func productRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category", summary).Preload("Author", summary)
}

func (r *GormRepo) ListProducts(ctx context.Context, q listing.Query) (listing.Page[models.Product], error) {
	return listing.Find[models.Product](ctx, r.DB, q, productRelations)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Scopes(productRelations).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs returns the products found, in no particular order.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	items := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Scopes(productRelations).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountProducts(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// SearchProductsByName is the database fallback for full-text search.
func (r *GormRepo) SearchProductsByName(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	pattern := listing.LikePattern(query)
	q := listing.Query{
		Filters: []listing.Filter{func(db *gorm.DB) *gorm.DB {
			return db.Where(`LOWER("name") LIKE ? ESCAPE '\' OR LOWER("description") LIKE ? ESCAPE '\'`, pattern, pattern)
		}},
		Sort: "name",
	}
	page, err := listing.Find[models.Product](ctx, r.DB, q, productRelations, func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	})
	if err != nil {
		return 0, nil, err
	}
	return page.Total, page.Data, nil
}

func (r *GormRepo) StarStats(ctx context.Context, ids []uuid.UUID) ([]StarStat, error) {
	stats := make([]StarStat, 0, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}
	err := r.DB.WithContext(ctx).
		Model(&models.Comment{}).
		Select("product_id, SUM(star) AS total, COUNT(*) AS count").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Category", "Author").Create(product).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Category", "Author").Save(product).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, &models.Product{}, id)
}

// ProductIDsWhere lists the ids of products matching a condition, used before cascading deletes.
func (r *GormRepo) ProductIDsWhere(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
