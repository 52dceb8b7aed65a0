package services

import (
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/product"
	"campusmarket/internal/pkg/errs"
)

// CancellationCoordinator cancels orders and returns their reserved stock.
// The refund itself is only recorded as intent on the order; the payment
// processor is called later, outside any unit of work.
type CancellationCoordinator struct{}

func NewCancellationCoordinator() CancellationCoordinator {
	return CancellationCoordinator{}
}

// Cancel applies a buyer (or, for paid orders, admin) cancellation.
// products must hold every product of the order, locked by the caller.
func (CancellationCoordinator) Cancel(
	o *order.Order,
	actor kernel.Actor,
	reason string,
	products map[kernel.UUID]*product.Product,
	now time.Time,
) error {
	if err := o.ValidateCancel(actor); err != nil {
		return err
	}
	if err := restoreStock(o, products); err != nil {
		return err
	}
	return o.Cancel(actor, reason, now)
}

// Refund applies an admin refund, which also covers DISPATCHED and ARRIVED orders.
func (CancellationCoordinator) Refund(
	o *order.Order,
	admin kernel.Actor,
	reason string,
	products map[kernel.UUID]*product.Product,
	now time.Time,
) error {
	if err := o.ValidateAdminRefund(admin); err != nil {
		return err
	}
	if err := restoreStock(o, products); err != nil {
		return err
	}
	return o.AdminRefund(admin, reason, now)
}

func restoreStock(o *order.Order, products map[kernel.UUID]*product.Product) error {
	items := o.Items()
	for _, item := range items {
		p, ok := products[item.ProductID()]
		if !ok {
			return errs.NewObjectNotFoundError("product", item.ProductID().String())
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := products[item.ProductID()].Restore(item.Quantity()); err != nil {
			return err
		}
	}
	return nil
}
