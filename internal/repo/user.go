package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/listing"
	"github.com/Skotchmaster/marketplace/internal/models"
)

type UniqueField string

const (
	FieldEmail UniqueField = "email"
	FieldPhone UniqueField = "phone"
	FieldName  UniqueField = "name"
)

// UserExists reports whether another user already holds value in field. except may be uuid.Nil.
func (r *GormRepo) UserExists(ctx context.Context, field UniqueField, value string, except uuid.UUID) (bool, error) {
	switch field {
	case FieldEmail, FieldPhone, FieldName:
	default:
		return false, fmt.Errorf("unsupported unique field %q", field)
	}

	cond := string(field) + " = ?"
	if field == FieldEmail {
		cond = "LOWER(email) = LOWER(?)"
	}
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where(cond, value)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Region").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, q listing.Query) (listing.Page[models.User], error) {
	return listing.Find[models.User](ctx, r.DB, q, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Region")
	})
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Omit("Region").Save(u).Error
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, &models.User{}, id)
}
