package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// OrderFilter narrows order summaries. Nil fields match everything.
type OrderFilter struct {
	UserID *uint
	Status *domain.OrderStatus
}

type orderRow struct {
	ID            uint
	OrderNumber   string
	UserID        uint
	OrderDate     time.Time
	Status        domain.OrderStatus
	TotalAmount   decimal.Decimal
	CustomerName  sql.NullString
	CustomerEmail sql.NullString
	CustomerPhone sql.NullString
	ItemQuantity  sql.NullInt64       // Null for an order without items
	ItemPrice     decimal.NullDecimal // Price snapshot
}

// OrderSummaries lists orders newest first, each joined with its customer and
// its item count, quantity and item total.
func (a *Aggregator) OrderSummaries(ctx context.Context, filter OrderFilter) ([]domain.OrderSummary, error) {
	q := a.conn.DB(ctx).Table(domain.TableOrders).
		Select("orders.id, orders.order_number, orders.user_id, orders.order_date, orders.status, orders.total_amount, " +
			"users.name AS customer_name, users.email AS customer_email, users.phone AS customer_phone, " +
			"order_items.quantity AS item_quantity, order_items.price_at_purchase AS item_price").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id")
	if filter.UserID != nil {
		q = q.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("orders.status = ?", *filter.Status)
	}
	var rows []orderRow
	err := q.Order("orders.order_date desc").Order("orders.id desc").Order("order_items.id asc").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("order summaries: %w", err)
	}

	summaries := make([]domain.OrderSummary, 0)
	for _, row := range rows {
		// Rows arrive grouped by order
		if n := len(summaries); n == 0 || summaries[n-1].ID != row.ID {
			summaries = append(summaries, domain.OrderSummary{
				ID:            row.ID,
				OrderNumber:   row.OrderNumber,
				UserID:        row.UserID,
				OrderDate:     row.OrderDate,
				Status:        row.Status,
				TotalAmount:   row.TotalAmount,
				CustomerName:  row.CustomerName.String,
				CustomerEmail: row.CustomerEmail.String,
				CustomerPhone: row.CustomerPhone.String,
				ItemsTotal:    decimal.Zero,
			})
		}
		if !row.ItemQuantity.Valid {
			continue
		}
		s := &summaries[len(summaries)-1]
		s.ItemCount++
		s.Quantity += int(row.ItemQuantity.Int64)
		s.ItemsTotal = s.ItemsTotal.Add(row.ItemPrice.Decimal.Mul(decimal.NewFromInt(row.ItemQuantity.Int64)))
	}
	return summaries, nil
}

type itemRow struct {
	ID              uint
	OrderID         uint
	ProductID       uint
	Quantity        int
	PriceAtPurchase decimal.Decimal
	ProductName     sql.NullString
	ImageURL        sql.NullString
}

// OrderItemViews joins an order's items with product display fields. Prices
// come from the purchase snapshot, never from the current catalog.
func (a *Aggregator) OrderItemViews(ctx context.Context, orderID uint) ([]domain.OrderItemView, error) {
	var rows []itemRow
	err := a.conn.DB(ctx).Table(domain.TableOrderItems).
		Select("order_items.id, order_items.order_id, order_items.product_id, order_items.quantity, "+
			"order_items.price_at_purchase, products.name AS product_name, products.image_url AS image_url").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("order item views: %w", err)
	}
	views := make([]domain.OrderItemView, 0, len(rows))
	for _, row := range rows {
		views = append(views, itemView(row))
	}
	return views, nil
}

// itemView shapes one joined item row; the subtotal uses the snapshot price
func itemView(row itemRow) domain.OrderItemView {
	v := domain.OrderItemView{
		ID:              row.ID,
		OrderID:         row.OrderID,
		ProductID:       row.ProductID,
		ProductName:     row.ProductName.String, // Empty once the product is purged
		Quantity:        row.Quantity,
		PriceAtPurchase: row.PriceAtPurchase,
		Subtotal:        row.PriceAtPurchase.Mul(decimal.NewFromInt(int64(row.Quantity))),
	}
	if row.ImageURL.Valid {
		url := row.ImageURL.String
		v.ImageURL = &url
	}
	return v
}

type detailRow struct {
	ID                uint
	OrderNumber       string
	UserID            uint
	ShippingAddressID *uint
	OrderDate         time.Time
	Status            domain.OrderStatus
	TotalAmount       decimal.Decimal
	UpdatedAt         time.Time
	ItemID            sql.NullInt64 // NULL when the order has no items
	ItemProductID     sql.NullInt64
	ItemQuantity      sql.NullInt64
	ItemPrice         decimal.NullDecimal
	ProductName       sql.NullString
	ImageURL          sql.NullString
}

// OrderDetail returns the order with its item views, or nil if absent. The
// order row and its items come from one statement, so a concurrent delete is
// seen whole or not at all.
func (a *Aggregator) OrderDetail(ctx context.Context, orderID uint) (*domain.OrderDetail, error) {
	var rows []detailRow
	err := a.conn.DB(ctx).Table(domain.TableOrders).
		Select("orders.id, orders.order_number, orders.user_id, orders.shipping_address_id, orders.order_date, "+
			"orders.status, orders.total_amount, orders.updated_at, "+
			"order_items.id AS item_id, order_items.product_id AS item_product_id, "+
			"order_items.quantity AS item_quantity, order_items.price_at_purchase AS item_price, "+
			"products.name AS product_name, products.image_url AS image_url").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("orders.id = ?", orderID).
		Order("order_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("order detail: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil // Absent order
	}

	head := rows[0]
	detail := &domain.OrderDetail{
		Order: domain.Order{
			ID:                head.ID,
			OrderNumber:       head.OrderNumber,
			UserID:            head.UserID,
			ShippingAddressID: head.ShippingAddressID,
			OrderDate:         head.OrderDate,
			Status:            head.Status,
			TotalAmount:       head.TotalAmount,
			UpdatedAt:         head.UpdatedAt,
		},
		Items: make([]domain.OrderItemView, 0, len(rows)),
	}
	for _, row := range rows {
		if !row.ItemID.Valid {
			continue // LEFT JOIN row of an order without items
		}
		detail.Items = append(detail.Items, itemView(itemRow{
			ID:              uint(row.ItemID.Int64),
			OrderID:         row.ID,
			ProductID:       uint(row.ItemProductID.Int64),
			Quantity:        int(row.ItemQuantity.Int64),
			PriceAtPurchase: row.ItemPrice.Decimal,
			ProductName:     row.ProductName,
			ImageURL:        row.ImageURL,
		}))
	}
	return detail, nil
}
