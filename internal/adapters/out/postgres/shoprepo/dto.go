// Package shoprepo persists shops and the ledger of credits to their balance.
package shoprepo

import (
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/shop"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShopDTO represents the database structure for persisting shop aggregates.
type ShopDTO struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name    string          `gorm:"type:varchar(255);not null"`
	City    string          `gorm:"type:varchar(32);not null"`
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

func (ShopDTO) TableName() string {
	return "shops"
}

// LedgerEntryDTO is an immutable credit record. The unique (order_id,
// line_no) index makes the store reject a second credit for an order line.
type LedgerEntryDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShopID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_ledger_order_line"`
	LineNo        int             `gorm:"not null;uniqueIndex:ux_ledger_order_line"`
	Type          string          `gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime:false"`
}

func (LedgerEntryDTO) TableName() string {
	return "shop_ledger_entries"
}

func fromDomain(s *shop.Shop) ShopDTO {
	return ShopDTO{
		ID:      s.ID().Bytes(),
		OwnerID: s.OwnerID().Bytes(),
		Name:    s.Name(),
		City:    s.City().String(),
		Balance: s.Balance().Decimal(),
	}
}

func toDomain(dto ShopDTO) (*shop.Shop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}
	balance, err := kernel.NewMoney(dto.Balance)
	if err != nil {
		return nil, err
	}

	return shop.RestoreShop(id, ownerID, dto.Name, kernel.City(dto.City), balance)
}

func entryFromDomain(e shop.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:            e.ID().Bytes(),
		ShopID:        e.ShopID().Bytes(),
		OrderID:       e.OrderID().Bytes(),
		LineNo:        e.LineNo(),
		Type:          string(e.Type()),
		Amount:        e.Amount().Decimal(),
		BalanceBefore: e.BalanceBefore().Decimal(),
		BalanceAfter:  e.BalanceAfter().Decimal(),
		CreatedAt:     e.CreatedAt(),
	}
}

func entryToDomain(dto LedgerEntryDTO) (shop.LedgerEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return shop.LedgerEntry{}, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return shop.LedgerEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return shop.LedgerEntry{}, err
	}

	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return shop.LedgerEntry{}, err
	}
	before, err := kernel.NewMoney(dto.BalanceBefore)
	if err != nil {
		return shop.LedgerEntry{}, err
	}
	after, err := kernel.NewMoney(dto.BalanceAfter)
	if err != nil {
		return shop.LedgerEntry{}, err
	}

	return shop.NewCreditEntry(id, shopID, orderID, dto.LineNo, amount, before, after, dto.CreatedAt)
}
