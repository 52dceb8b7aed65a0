package queries

import (
	"errors"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/guard"
)

var ErrListShopOrdersQueryIsNotConstructed = errors.New(
	"ListShopOrdersQuery must be created via NewListShopOrdersQuery constructor",
)

// ListShopOrdersQuery lists orders holding items of one shop, newest first.
// Only the owner of that shop and admins may run it.
type ListShopOrdersQuery struct {
	shopID kernel.UUID
	viewer kernel.Actor
	page   Page

	guard guard.ConstructorGuard
}

func NewListShopOrdersQuery(shopID kernel.UUID, viewer kernel.Actor, page Page) (ListShopOrdersQuery, error) {
	if err := errors.Join(shopID.Validate(), viewer.Validate()); err != nil {
		return ListShopOrdersQuery{}, err
	}
	page, err := page.normalize()
	if err != nil {
		return ListShopOrdersQuery{}, err
	}

	return ListShopOrdersQuery{
		shopID: shopID,
		viewer: viewer,
		page:   page,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListShopOrdersQuery) ShopID() kernel.UUID {
	return q.shopID
}

func (q ListShopOrdersQuery) Viewer() kernel.Actor {
	return q.viewer
}

func (q ListShopOrdersQuery) Page() Page {
	return q.page
}

func (q ListShopOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListShopOrdersQueryIsNotConstructed)
}
