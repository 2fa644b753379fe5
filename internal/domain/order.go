package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address Model. At most one address per user has IsDefault set.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Recipient  string    `gorm:"size:120;not null" json:"recipient"`
	Phone      string    `gorm:"size:32" json:"phone"`
	Line1      string    `gorm:"size:255;not null" json:"line1"`
	Line2      *string   `gorm:"size:255" json:"line2,omitempty"`
	City       string    `gorm:"size:120;not null" json:"city"`
	PostalCode string    `gorm:"size:20" json:"postal_code"`
	Country    string    `gorm:"size:64" json:"country"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cart Model, one row per (user, product)
type Cart struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `gorm:"not null" json:"added_at"`
}

// Order Model. TotalAmount is snapshotted when the order is placed.
type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderNumber       string          `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	ShippingAddressID *uint           `json:"shipping_address_id,omitempty"`
	OrderDate         time.Time       `gorm:"not null;index" json:"order_date"`
	Status            OrderStatus     `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem Model. PriceAtPurchase never follows later catalog price changes.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_purchase"`
}

// Subtotal is quantity times the snapshotted unit price
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Models lists every persisted entity in migration order
func Models() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Review{},
		&Wishlist{},
		&Address{},
		&Cart{},
		&Order{},
		&OrderItem{},
	}
}
