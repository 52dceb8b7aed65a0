package ports

import (
	"context"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/shop"
)

// ShopRepository persists shops and their ledger. A balance change and its
// ledger entry must be written in the same unit of work.
type ShopRepository interface {
	Add(ctx context.Context, aggregate *shop.Shop) error

	Get(ctx context.Context, id kernel.UUID) (*shop.Shop, error)

	// GetForUpdateSorted locks the given shops in ascending id order and
	// returns them keyed by id. A missing shop is an errs.ObjectNotFoundError.
	GetForUpdateSorted(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*shop.Shop, error)

	// UpdateBalance writes the balance of a shop loaded in the same unit of work.
	UpdateBalance(ctx context.Context, aggregate *shop.Shop) error

	// AppendLedgerEntries stores new ledger entries. A second entry for the
	// same (order, line) is rejected by the store.
	AppendLedgerEntries(ctx context.Context, entries []shop.LedgerEntry) error

	// ListLedger returns the entries of one shop in insertion order.
	ListLedger(ctx context.Context, shopID kernel.UUID) ([]shop.LedgerEntry, error)
}
