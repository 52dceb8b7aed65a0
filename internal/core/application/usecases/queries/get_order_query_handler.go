package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with its items and status trail.
//
// Access rules:
//   - a buyer reads their own orders
//   - a shop owner reads orders holding items of the shop they own
//   - runners and admins read any order
//   - everyone else gets errs.ErrUnauthorized
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	db := h.db.WithContext(ctx)

	view, otp, err := h.readOrder(db, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}

	if err = h.authorize(db, view, query.Viewer()); err != nil {
		return OrderView{}, err
	}

	if view.Items, err = h.readItems(db, query.OrderID()); err != nil {
		return OrderView{}, err
	}
	if view.History, err = h.readHistory(db, query.OrderID()); err != nil {
		return OrderView{}, err
	}

	if query.Viewer().Is(kernel.RoleBuyer) && !view.Status.IsTerminal() {
		view.OTPCode = &otp
	}

	return view, nil
}

func (h GetOrderQueryHandler) authorize(db *gorm.DB, view OrderView, viewer kernel.Actor) error {
	switch viewer.Role() {
	case kernel.RoleRunner, kernel.RoleAdmin:
		return nil
	case kernel.RoleBuyer:
		if view.BuyerID.IsEqual(viewer.ID()) {
			return nil
		}
	case kernel.RoleShopOwner:
		shopID, _ := viewer.ShopID()

		var holds bool
		if err := db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM order_items i
				JOIN shops s ON s.id = i.shop_id
				WHERE i.order_id = ? AND s.id = ? AND s.owner_id = ?
			)
		`, view.ID.Bytes(), shopID.Bytes(), viewer.ID().Bytes()).Scan(&holds).Error; err != nil {
			return err
		}
		if holds {
			return nil
		}
	}

	return errs.ErrUnauthorized
}

func (h GetOrderQueryHandler) readOrder(db *gorm.DB, id kernel.UUID) (OrderView, string, error) {
	var (
		view                     OrderView
		orderID, buyerID         uuid.UUID
		campus, status, otp      string
		total, fee, refundAmount decimal.Decimal
		etaMin, etaMax           int
		refundInitiated          bool
		reason                   sql.NullString
		escrowReleasedAt         sql.NullTime
	)

	err := db.Raw(`
		SELECT
			id,
			buyer_id,
			campus,
			locale,
			status,
			total_amount,
			delivery_fee,
			eta_min_minutes,
			eta_max_minutes,
			otp_code,
			otp_attempts,
			cancellation_reason,
			refund_initiated,
			refund_amount,
			escrow_released_at,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, id.Bytes()).Row().Scan(
		&orderID,
		&buyerID,
		&campus,
		&view.Locale,
		&status,
		&total,
		&fee,
		&etaMin,
		&etaMax,
		&otp,
		&view.OTPAttempts,
		&reason,
		&refundInitiated,
		&refundAmount,
		&escrowReleasedAt,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderView{}, "", errs.NewObjectNotFoundError("order", id.String())
		}
		return OrderView{}, "", err
	}

	if view.ID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return OrderView{}, "", err
	}
	if view.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return OrderView{}, "", err
	}
	if view.TotalAmount, err = kernel.NewMoney(total); err != nil {
		return OrderView{}, "", err
	}
	if view.DeliveryFee, err = kernel.NewMoney(fee); err != nil {
		return OrderView{}, "", err
	}
	if view.ETA, err = kernel.NewETA(minutes(etaMin), minutes(etaMax)); err != nil {
		return OrderView{}, "", err
	}

	view.Campus = kernel.Campus(campus)
	view.Status = order.Status(status)
	view.Locked = view.OTPAttempts >= order.MaxOTPAttempts
	view.RefundInitiated = refundInitiated
	if refundInitiated {
		amount, moneyErr := kernel.NewMoney(refundAmount)
		if moneyErr != nil {
			return OrderView{}, "", moneyErr
		}
		view.RefundAmount = &amount
	}
	if reason.Valid {
		view.CancellationReason = &reason.String
	}
	if escrowReleasedAt.Valid {
		at := escrowReleasedAt.Time.UTC()
		view.EscrowReleasedAt = &at
	}
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()

	return view, otp, nil
}

func (h GetOrderQueryHandler) readItems(db *gorm.DB, orderID kernel.UUID) ([]OrderItemView, error) {
	rows, err := db.Raw(`
		SELECT
			line_no,
			product_id,
			shop_id,
			product_name,
			quantity,
			price_at_purchase,
			origin_city
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var (
			item              OrderItemView
			productID, shopID uuid.UUID
			price             decimal.Decimal
			city              string
		)
		if err = rows.Scan(&item.LineNo, &productID, &shopID, &item.ProductName, &item.Quantity, &price, &city); err != nil {
			return nil, err
		}

		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		if item.ShopID, err = kernel.UUIDFromBytes(shopID[:]); err != nil {
			return nil, err
		}
		if item.PriceAtPurchase, err = kernel.NewMoney(price); err != nil {
			return nil, err
		}
		item.OriginCity = kernel.City(city)

		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) readHistory(db *gorm.DB, orderID kernel.UUID) ([]StatusChangeView, error) {
	rows, err := db.Raw(`
		SELECT
			from_status,
			to_status,
			at,
			actor_id,
			actor_role
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusChangeView, 0)
	for rows.Next() {
		var (
			change         StatusChangeView
			from, to, role string
			actorID        uuid.UUID
		)
		if err = rows.Scan(&from, &to, &change.At, &actorID, &role); err != nil {
			return nil, err
		}

		if change.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		change.From = order.Status(from)
		change.To = order.Status(to)
		change.ActorRole = kernel.Role(role)
		change.At = change.At.UTC()

		history = append(history, change)
	}

	return history, rows.Err()
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
