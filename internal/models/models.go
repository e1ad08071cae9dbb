package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one dish in a user's cart. Owner is the API username.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:varchar(36);primaryKey"           json:"id"`
	Owner     string          `gorm:"uniqueIndex:idx_owner_dish;not null"  json:"owner"`
	DishID    int             `gorm:"uniqueIndex:idx_owner_dish;not null"  json:"dish_id"`
	Name      string          `gorm:"not null"                              json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"           json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `gorm:"not null;default:1;check:quantity>0"   json:"quantity"`
	Position  int             `gorm:"not null;default:0"                    json:"-"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartDiscount is the discount applied to a user's cart, at most one per owner.
type CartDiscount struct {
	Owner      string    `gorm:"primaryKey"                                    json:"owner"`
	Code       string    `gorm:"not null"                                      json:"code"`
	Percentage int       `gorm:"not null;check:percentage >= 0 AND percentage <= 100" json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CartDiscount) TableName() string {
	return "cart_discounts"
}

func All() []any {
	return []any{&CartItem{}, &CartDiscount{}}
}
