package services

import (
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/pkg/errs"
)

// ErrEscrowNotDue is returned by Release for orders that are not COMPLETED
// or were already released.
var ErrEscrowNotDue = errors.New("escrow release is not due")

// EscrowLedger releases the funds of a completed order to its shops. Both the
// OTP path and the admin override call Release; there is no other way to
// credit a shop.
//
// Business rules:
//   - release happens once per order, guarded by Order.NeedsEscrowRelease
//   - every item credits priceAtPurchase × quantity to its shop
//   - every credit yields a ledger entry with balance before and after
//   - either every shop is credited or none is
type EscrowLedger struct{}

func NewEscrowLedger() EscrowLedger {
	return EscrowLedger{}
}

// Release credits every item of o to the matching shop in shops and marks
// the order released. shops must hold every shop of the order, locked by the
// caller in the current unit of work. The returned entries, the shops and
// the order must all be persisted in that same unit.
func (EscrowLedger) Release(o *order.Order, shops map[kernel.UUID]*shop.Shop, now time.Time) ([]shop.LedgerEntry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !o.NeedsEscrowRelease() {
		return nil, ErrEscrowNotDue
	}

	items := o.Items()
	for _, item := range items {
		s, ok := shops[item.ShopID()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("shop", item.ShopID().String())
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	entries := make([]shop.LedgerEntry, 0, len(items))
	for _, item := range items {
		entry, err := shops[item.ShopID()].Credit(o.ID(), item.LineNo(), item.Total(), now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := o.MarkEscrowReleased(now); err != nil {
		return nil, err
	}

	return entries, nil
}
