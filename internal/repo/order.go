package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

func orderRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", summary).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "price") })
}

func (r *GormRepo) ListOrders(ctx context.Context, q listing.Query) (listing.Page[models.Order], error) {
	return listing.Find[models.Order](ctx, r.DB, q, orderRelations)
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.DB.WithContext(ctx).
		Scopes(orderRelations).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Scopes(orderRelations).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts the order row and bulk-inserts its items in one transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit("User", "Items").Create(order).Error; err != nil {
			return err
		}
		if err := insertItems(tx, order.ID, items); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// ReplaceOrderItems deletes every item of the order and inserts items instead.
func (r *GormRepo) ReplaceOrderItems(ctx context.Context, orderID uint, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("updated_at", tx.NowFunc())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return insertItems(tx, orderID, items)
	})
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.Order{}, id)
	})
}

func insertItems(tx *gorm.DB, orderID uint, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
	}
	return tx.Omit("Product").CreateInBatches(items, 100).Error
}
