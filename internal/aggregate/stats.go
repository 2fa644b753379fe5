package aggregate

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// OrderStats counts orders per status, for one user or, with nil, for everyone
func (a *Aggregator) OrderStats(ctx context.Context, userID *uint) (domain.OrderStats, error) {
	var rows []struct {
		Status domain.OrderStatus
		N      int64
	}
	q := a.conn.DB(ctx).Model(&domain.Order{}).Select("status, COUNT(*) AS n")
	if userID != nil {
		q = q.Where("user_id = ?", *userID) // Scope to one user
	}
	var stats domain.OrderStats
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return stats, fmt.Errorf("order stats: %w", err)
	}
	for _, row := range rows {
		stats.Add(row.Status, row.N)
	}
	return stats, nil
}

// TotalSpent sums the snapshotted totals of a user's non-cancelled orders
func (a *Aggregator) TotalSpent(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var rows []struct {
		TotalAmount decimal.Decimal
	}
	err := a.conn.DB(ctx).Model(&domain.Order{}).Select("total_amount").
		Where("user_id = ? AND status <> ?", userID, domain.OrderCancelled).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("total spent: %w", err)
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalAmount)
	}
	return total, nil
}

// RatingSummary averages existing reviews only. Average stays nil with no reviews.
func (a *Aggregator) RatingSummary(ctx context.Context, productID uint) (domain.RatingSummary, error) {
	var row struct {
		Count   int64
		Average sql.NullFloat64
	}
	summary := domain.RatingSummary{ProductID: productID}
	err := a.conn.DB(ctx).Model(&domain.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return summary, fmt.Errorf("rating summary: %w", err)
	}
	summary.Count = row.Count
	if row.Count > 0 && row.Average.Valid {
		avg := row.Average.Float64
		summary.Average = &avg
	}
	return summary, nil
}

// HasUserPurchasedProduct reports whether the user has a confirmed, shipped or
// delivered order containing the product
func (a *Aggregator) HasUserPurchasedProduct(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := a.conn.DB(ctx).Table(domain.TableOrderItems).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Where("orders.status IN ?", []domain.OrderStatus{domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered}).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("purchase check: %w", err)
	}
	return n > 0, nil
}
