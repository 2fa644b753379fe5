package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one cart row joined with its product
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  *string         `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Stock     int             `json:"stock"`
	AddedAt   time.Time       `json:"added_at"`
	// Stale marks a line whose product is inactive or gone; it is excluded from totals.
	Stale bool `json:"stale"`
}

// CartView is a user's cart with derived totals
type CartView struct {
	UserID    uint            `json:"user_id"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// OrderSummary is an order joined with its customer and item aggregates
type OrderSummary struct {
	ID            uint            `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uint            `json:"user_id"`
	OrderDate     time.Time       `json:"order_date"`
	Status        OrderStatus     `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	ItemCount     int             `json:"item_count"`
	Quantity      int             `json:"quantity"`
	ItemsTotal    decimal.Decimal `json:"items_total"`
}

// OrderItemView is an order item joined with product display fields.
// Monetary figures come from the price snapshot only.
type OrderItemView struct {
	ID              uint            `json:"id"`
	OrderID         uint            `json:"order_id"`
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ImageURL        *string         `json:"image_url,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// OrderDetail is an order with its item views
type OrderDetail struct {
	Order Order           `json:"order"`
	Items []OrderItemView `json:"items"`
}

// OrderStats counts orders per status
type OrderStats struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Shipped   int64 `json:"shipped"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}

// Add records n orders in the given status
func (s *OrderStats) Add(status OrderStatus, n int64) {
	switch status {
	case OrderPending:
		s.Pending += n
	case OrderConfirmed:
		s.Confirmed += n
	case OrderShipped:
		s.Shipped += n
	case OrderDelivered:
		s.Delivered += n
	case OrderCancelled:
		s.Cancelled += n
	}
	s.Total += n
}

// Completed is the number of delivered orders
func (s OrderStats) Completed() int64 {
	return s.Delivered
}

// RatingSummary holds review aggregates for a product.
// Average is nil when the product has no reviews.
type RatingSummary struct {
	ProductID uint     `json:"product_id"`
	Count     int64    `json:"count"`
	Average   *float64 `json:"average,omitempty"`
}
