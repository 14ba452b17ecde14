package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleSeller     = "seller"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

var Roles = []string{RoleSeller, RoleUser, RoleAdmin, RoleSuperAdmin}

func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

type Region struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name string `gorm:"not null"                  json:"name"`
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:50"                  json:"name"`
	Email     string    `gorm:"uniqueIndex;not null"                          json:"email,omitempty"`
	Phone     string    `gorm:"uniqueIndex;not null;size:13"                  json:"phone,omitempty"`
	Password  string    `gorm:"not null"                                      json:"-"`
	Year      int       `gorm:"not null"                                      json:"year,omitempty"`
	RegionID  uint      `gorm:"index;not null"                                json:"region_id,omitempty"`
	Region    *Region   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"region,omitempty"`
	Image     string    `json:"image,omitempty"`
	Role      string    `gorm:"not null;default:user"                         json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Name     string    `gorm:"not null;size:50"                              json:"name"`
	Products []Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"products,omitempty"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	Name        string    `gorm:"not null"                                      json:"name"`
	Description string    `gorm:"not null"                                      json:"description"`
	Price       int64     `gorm:"not null;check:price >= 0"                     json:"price"`
	Image       string    `json:"image"`
	Star        float64   `gorm:"-"                                             json:"star"`
	CategoryID  uint      `gorm:"index;not null"                                json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index;not null"                      json:"author_id"`
	Author      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Message   string    `gorm:"not null"                                      json:"message"`
	Star      int       `gorm:"not null;check:star >= 1 AND star <= 5"        json:"star"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"                      json:"product_id"`
	Product   *Product  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"product,omitempty"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null"                      json:"author_id"`
	Author    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null"                      json:"user_id"`
	User      *User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"user,omitempty"`
	Items     []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	OrderID   uint      `gorm:"index;not null"                                json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"                      json:"product_id"`
	Product   *Product  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"product,omitempty"`
	Count     int       `gorm:"not null;default:1;check:count > 0"            json:"count"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&Region{}, &User{}, &Category{}, &Product{}, &Comment{}, &Order{}, &OrderItem{}}
}
