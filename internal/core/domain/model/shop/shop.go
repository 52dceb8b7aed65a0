// Package shop models the seller side of the marketplace: a shop's escrow
// balance and the append-only ledger that explains it.
package shop

import (
	"errors"
	"strings"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

var ErrShopIsNotConstructed = errors.New("Shop must be created via NewShop constructor")

// Shop is an aggregate holding the running balance released to a seller.
// The balance only changes through Credit, which also produces the ledger
// entry that has to be stored in the same unit of work.
type Shop struct {
	id      kernel.UUID
	ownerID kernel.UUID
	name    string
	city    kernel.City
	balance kernel.Money

	isConstructed bool
}

// NewShop registers a shop with a zero balance.
func NewShop(id, ownerID kernel.UUID, name string, city kernel.City) (*Shop, error) {
	return RestoreShop(id, ownerID, name, city, kernel.ZeroMoney())
}

// RestoreShop rebuilds a shop loaded from storage.
func RestoreShop(id, ownerID kernel.UUID, name string, city kernel.City, balance kernel.Money) (*Shop, error) {
	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(id.Validate(), ownerID.Validate(), nameErr, city.Validate()); err != nil {
		return nil, err
	}

	return &Shop{
		id:            id,
		ownerID:       ownerID,
		name:          name,
		city:          city,
		balance:       balance,
		isConstructed: true,
	}, nil
}

func (s *Shop) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShopIsNotConstructed
	}
	return nil
}

func (s *Shop) ID() kernel.UUID {
	return s.id
}

func (s *Shop) OwnerID() kernel.UUID {
	return s.ownerID
}

func (s *Shop) Name() string {
	return s.name
}

// City is where the shop dispatches from; it drives delivery pricing.
func (s *Shop) City() kernel.City {
	return s.city
}

func (s *Shop) Balance() kernel.Money {
	return s.balance
}

// Credit adds amount to the balance for one order line and returns the
// ledger entry recording balance before and after.
func (s *Shop) Credit(orderID kernel.UUID, lineNo int, amount kernel.Money, now time.Time) (LedgerEntry, error) {
	before := s.balance
	after := before.Add(amount)

	entry, err := NewCreditEntry(kernel.NewUUID(), s.id, orderID, lineNo, amount, before, after, now)
	if err != nil {
		return LedgerEntry{}, err
	}

	s.balance = after
	return entry, nil
}
