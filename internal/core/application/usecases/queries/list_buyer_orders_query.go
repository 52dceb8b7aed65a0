package queries

import (
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListBuyerOrdersQueryIsNotConstructed = errors.New(
	"ListBuyerOrdersQuery must be created via NewListBuyerOrdersQuery constructor",
)

// Page selects a window of a newest-first listing.
type Page struct {
	Limit  int
	Offset int
}

// normalize applies DefaultPageSize to a zero limit and rejects values out
// of range.
func (p Page) normalize() (Page, error) {
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit < 0 || p.Limit > MaxPageSize {
		return Page{}, errs.NewValueIsOutOfRangeError("limit", p.Limit, 1, MaxPageSize)
	}
	if p.Offset < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("offset", p.Offset, 0, "unbounded")
	}
	return p, nil
}

// ListBuyerOrdersQuery lists the orders a buyer placed, newest first.
type ListBuyerOrdersQuery struct {
	buyer kernel.Actor
	page  Page

	guard guard.ConstructorGuard
}

func NewListBuyerOrdersQuery(buyer kernel.Actor, page Page) (ListBuyerOrdersQuery, error) {
	if err := buyer.Validate(); err != nil {
		return ListBuyerOrdersQuery{}, err
	}
	page, err := page.normalize()
	if err != nil {
		return ListBuyerOrdersQuery{}, err
	}

	return ListBuyerOrdersQuery{
		buyer: buyer,
		page:  page,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListBuyerOrdersQuery) Buyer() kernel.Actor {
	return q.buyer
}

func (q ListBuyerOrdersQuery) Page() Page {
	return q.page
}

func (q ListBuyerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListBuyerOrdersQueryIsNotConstructed)
}

// OrderSummary is one row of an order listing. In a shop listing Subtotal
// covers only that shop's lines; in a buyer listing it equals TotalAmount.
type OrderSummary struct {
	ID          kernel.UUID
	BuyerID     kernel.UUID
	Campus      kernel.Campus
	Status      order.Status
	TotalAmount kernel.Money
	DeliveryFee kernel.Money
	Subtotal    kernel.Money
	ItemCount   int
	CreatedAt   time.Time
}
