package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type cartRow struct {
	ProductID uint
	Quantity  int
	AddedAt   time.Time
	Name      sql.NullString
	ImageURL  sql.NullString
	Price     decimal.NullDecimal
	Stock     sql.NullInt64
	Active    sql.NullBool
}

// CartView joins the user's cart rows with products. Lines whose product is
// inactive or missing are returned with Stale set and left out of the totals.
func (a *Aggregator) CartView(ctx context.Context, userID uint) (*domain.CartView, error) {
	var rows []cartRow
	err := a.conn.DB(ctx).Table(domain.TableCarts).
		Select("carts.product_id, carts.quantity, carts.added_at, products.name AS name, "+
										"products.image_url AS image_url, products.price AS price, products.stock AS stock, products.active AS active").
		Joins("LEFT JOIN products ON products.id = carts.product_id"). // Keep lines whose product is gone
		Where("carts.user_id = ?", userID).
		Order("carts.added_at asc").Order("carts.product_id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("cart view: %w", err)
	}

	view := &domain.CartView{UserID: userID, Lines: make([]domain.CartLine, 0, len(rows)), Total: decimal.Zero}
	for _, row := range rows {
		line := domain.CartLine{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.AddedAt,
			Name:      row.Name.String,
			UnitPrice: decimal.Zero,
			Subtotal:  decimal.Zero,
			Stock:     int(row.Stock.Int64),
			Stale:     !row.Name.Valid || !row.Active.Bool,
		}
		if row.ImageURL.Valid {
			url := row.ImageURL.String
			line.ImageURL = &url
		}
		if row.Price.Valid {
			line.UnitPrice = row.Price.Decimal
			line.Subtotal = row.Price.Decimal.Mul(decimal.NewFromInt(int64(row.Quantity)))
		}
		// Stale lines are listed but not charged
		if !line.Stale {
			view.Total = view.Total.Add(line.Subtotal)
			view.ItemCount += line.Quantity
		}
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}
