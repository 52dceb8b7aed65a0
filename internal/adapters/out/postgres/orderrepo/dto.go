// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// An order is stored as one row in orders plus its immutable item snapshot in
// order_items and its append-only status trail in order_status_history.
package orderrepo

import (
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Campus             string          `gorm:"type:varchar(32);not null"`
	Locale             string          `gorm:"type:varchar(8);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DeliveryFee        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ETAMinMinutes      int             `gorm:"column:eta_min_minutes;not null"`
	ETAMaxMinutes      int             `gorm:"column:eta_max_minutes;not null"`
	Status             string          `gorm:"type:varchar(16);not null;index"`
	OTPCode            string          `gorm:"column:otp_code;type:char(6);not null"`
	OTPAttempts        int             `gorm:"column:otp_attempts;not null;default:0"`
	CancellationReason *string         `gorm:"type:text"`
	RefundInitiated    bool            `gorm:"not null;default:false"`
	RefundAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	RefundInitiatedAt  *time.Time
	RefundDispatchedAt *time.Time
	EscrowReleasedAt   *time.Time
	Version            int       `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`

	Items   []OrderItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []StatusChangeDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of the item snapshot taken at purchase time.
type OrderItemDTO struct {
	OrderID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNo          int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ShopID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OriginCity      string          `gorm:"type:varchar(32);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO is one entry of the status trail. Seq is the position in
// the trail; rows are only ever inserted.
type StatusChangeDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey;autoIncrement:false"`
	FromStatus string    `gorm:"type:varchar(16);not null"`
	ToStatus   string    `gorm:"type:varchar(16);not null"`
	At         time.Time `gorm:"not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"type:varchar(32);not null"`
}

func (StatusChangeDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:         orderID,
			LineNo:          item.LineNo(),
			ProductID:       item.ProductID().Bytes(),
			ShopID:          item.ShopID().Bytes(),
			ProductName:     item.ProductName(),
			Quantity:        item.Quantity(),
			PriceAtPurchase: item.PriceAtPurchase().Decimal(),
			OriginCity:      item.OriginCity().String(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(o.History()))
	for i, change := range o.History() {
		history = append(history, StatusChangeDTO{
			OrderID:    orderID,
			Seq:        i + 1,
			FromStatus: change.From().String(),
			ToStatus:   change.To().String(),
			At:         change.At(),
			ActorID:    change.ActorID().Bytes(),
			ActorRole:  change.ActorRole().String(),
		})
	}

	refund := o.Refund()
	return OrderDTO{
		ID:                 orderID,
		BuyerID:            o.BuyerID().Bytes(),
		Campus:             o.Campus().String(),
		Locale:             o.Locale(),
		TotalAmount:        o.TotalAmount().Decimal(),
		DeliveryFee:        o.DeliveryFee().Decimal(),
		ETAMinMinutes:      int(o.ETA().Min() / time.Minute),
		ETAMaxMinutes:      int(o.ETA().Max() / time.Minute),
		Status:             o.Status().String(),
		OTPCode:            o.OTPCode().String(),
		OTPAttempts:        o.OTPAttempts(),
		CancellationReason: o.CancellationReason(),
		RefundInitiated:    refund.Initiated(),
		RefundAmount:       refund.Amount().Decimal(),
		RefundInitiatedAt:  refund.InitiatedAt(),
		RefundDispatchedAt: refund.DispatchedAt(),
		EscrowReleasedAt:   o.EscrowReleasedAt(),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Items:              items,
		History:            history,
	}
}

// mutableColumns lists what an update may change. Items, buyer, campus and
// amounts are fixed at creation.
func (dto OrderDTO) mutableColumns(nextVersion int) map[string]any {
	return map[string]any{
		"status":               dto.Status,
		"otp_attempts":         dto.OTPAttempts,
		"cancellation_reason":  dto.CancellationReason,
		"refund_initiated":     dto.RefundInitiated,
		"refund_amount":        dto.RefundAmount,
		"refund_initiated_at":  dto.RefundInitiatedAt,
		"refund_dispatched_at": dto.RefundDispatchedAt,
		"escrow_released_at":   dto.EscrowReleasedAt,
		"updated_at":           dto.UpdatedAt,
		"version":              nextVersion,
	}
}

// toDomain converts a database DTO, with items and history preloaded in
// order, to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, changeDto := range dto.History {
		change, changeErr := statusChangeToDomain(changeDto)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	total, totalErr := kernel.NewMoney(dto.TotalAmount)
	fee, feeErr := kernel.NewMoney(dto.DeliveryFee)
	refundAmount, refundErr := kernel.NewMoney(dto.RefundAmount)
	eta, etaErr := kernel.NewETA(
		time.Duration(dto.ETAMinMinutes)*time.Minute,
		time.Duration(dto.ETAMaxMinutes)*time.Minute,
	)
	otp, otpErr := order.ParseOTPCode(dto.OTPCode)
	if err = errors.Join(totalErr, feeErr, refundErr, etaErr, otpErr); err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:                 id,
		BuyerID:            buyerID,
		Campus:             kernel.Campus(dto.Campus),
		Locale:             dto.Locale,
		Items:              items,
		TotalAmount:        total,
		DeliveryFee:        fee,
		ETA:                eta,
		Status:             order.Status(dto.Status),
		History:            history,
		OTPCode:            otp,
		OTPAttempts:        dto.OTPAttempts,
		CancellationReason: dto.CancellationReason,
		Refund:             order.RestoreRefund(dto.RefundInitiated, refundAmount, dto.RefundInitiatedAt, dto.RefundDispatchedAt),
		EscrowReleasedAt:   dto.EscrowReleasedAt,
		Version:            dto.Version,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(dto.PriceAtPurchase)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(dto.LineNo, productID, shopID, dto.ProductName, dto.Quantity, price, kernel.City(dto.OriginCity))
}

func statusChangeToDomain(dto StatusChangeDTO) (order.StatusChange, error) {
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return order.StatusChange{}, err
	}

	return order.NewStatusChange(
		order.Status(dto.FromStatus),
		order.Status(dto.ToStatus),
		dto.At,
		actorID,
		kernel.Role(dto.ActorRole),
	)
}
