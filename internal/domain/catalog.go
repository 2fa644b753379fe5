package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category Model, optionally nested under a parent category
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null;index" json:"name"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"` // nil for root categories
	CreatedAt time.Time `json:"created_at"`
}

// Product Model. Products are never removed, only deactivated.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	ImageURL    *string         `gorm:"size:512" json:"image_url,omitempty"`
	Active      bool            `gorm:"not null" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Review Model. One review per (user, product) is expected but not enforced.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Wishlist Model, keyed by (user, product)
type Wishlist struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	AddedAt   time.Time `gorm:"not null" json:"added_at"`
}
