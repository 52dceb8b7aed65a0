package queries

import (
	"context"
	"database/sql"
	"errors"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler serves the buyer and shop listings.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	query, _ := NewListBuyerOrdersQuery(buyer, Page{Limit: 20})
//	orders, err := handler.HandleBuyer(ctx, query)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// HandleBuyer lists the viewer's own orders. Only buyers have any.
func (h ListOrdersQueryHandler) HandleBuyer(ctx context.Context, query ListBuyerOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.Buyer().Is(kernel.RoleBuyer) {
		return nil, errs.ErrUnauthorized
	}

	page := query.Page()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.buyer_id,
			o.campus,
			o.status,
			o.total_amount,
			o.delivery_fee,
			o.total_amount AS subtotal,
			(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE o.buyer_id = ?
		ORDER BY o.created_at DESC, o.id
		LIMIT ? OFFSET ?
	`, query.Buyer().ID().Bytes(), page.Limit, page.Offset).Rows()
	if err != nil {
		return nil, err
	}

	return scanSummaries(rows)
}

// HandleShop lists orders holding items of the shop. A shop owner must own
// it; admins see any shop. A missing shop is errs.ErrShopNotFound.
func (h ListOrdersQueryHandler) HandleShop(ctx context.Context, query ListShopOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	viewer := query.Viewer()

	if !viewer.Is(kernel.RoleAdmin) && !viewer.Is(kernel.RoleShopOwner) {
		return nil, errs.ErrUnauthorized
	}
	if shopID, ok := viewer.ShopID(); viewer.Is(kernel.RoleShopOwner) && (!ok || !shopID.IsEqual(query.ShopID())) {
		return nil, errs.ErrUnauthorized
	}

	var ownerID uuid.UUID
	err := db.Raw(`SELECT owner_id FROM shops WHERE id = ?`, query.ShopID().Bytes()).Row().Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("shop", query.ShopID().String())
		}
		return nil, err
	}
	if viewer.Is(kernel.RoleShopOwner) && ownerID != viewer.ID().Bytes() {
		return nil, errs.ErrUnauthorized
	}

	page := query.Page()
	rows, err := db.Raw(`
		SELECT
			o.id,
			o.buyer_id,
			o.campus,
			o.status,
			o.total_amount,
			o.delivery_fee,
			SUM(i.price_at_purchase * i.quantity) AS subtotal,
			SUM(i.quantity) AS item_count,
			o.created_at
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE i.shop_id = ?
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id
		LIMIT ? OFFSET ?
	`, query.ShopID().Bytes(), page.Limit, page.Offset).Rows()
	if err != nil {
		return nil, err
	}

	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]OrderSummary, error) {
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			summary              OrderSummary
			id, buyerID          uuid.UUID
			campus, status       string
			total, fee, subtotal decimal.Decimal
		)
		err := rows.Scan(
			&id,
			&buyerID,
			&campus,
			&status,
			&total,
			&fee,
			&subtotal,
			&summary.ItemCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
			return nil, err
		}
		if summary.TotalAmount, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		if summary.DeliveryFee, err = kernel.NewMoney(fee); err != nil {
			return nil, err
		}
		if summary.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
			return nil, err
		}
		summary.Campus = kernel.Campus(campus)
		summary.Status = order.Status(status)
		summary.CreatedAt = summary.CreatedAt.UTC()

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
