package commands

import (
	"context"
	"slices"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/product"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
)

// Shared steps of the commands that cancel orders or release escrow. Each
// expects the order to be locked already in uow; the rows locked here always
// come after the order row and in ascending id order.

type productSet = map[kernel.UUID]*product.Product

func productIDsOf(o *order.Order) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(o.Items()))
	for _, item := range o.Items() {
		if !slices.ContainsFunc(ids, item.ProductID().IsEqual) {
			ids = append(ids, item.ProductID())
		}
	}
	slices.SortFunc(ids, kernel.UUID.Compare)
	return ids
}

// cancelLocked cancels o and returns its stock.
func cancelLocked(
	ctx context.Context,
	uow UoW,
	coordinator services.CancellationCoordinator,
	o *order.Order,
	actor kernel.Actor,
	reason string,
	at time.Time,
) error {
	if err := o.ValidateCancel(actor); err != nil {
		return err
	}
	return restockAndSave(ctx, uow, o, func(products productSet) error {
		return coordinator.Cancel(o, actor, reason, products, at)
	})
}

// refundLocked applies an admin refund to o and returns its stock.
func refundLocked(
	ctx context.Context,
	uow UoW,
	coordinator services.CancellationCoordinator,
	o *order.Order,
	admin kernel.Actor,
	reason string,
	at time.Time,
) error {
	if err := o.ValidateAdminRefund(admin); err != nil {
		return err
	}
	return restockAndSave(ctx, uow, o, func(products productSet) error {
		return coordinator.Refund(o, admin, reason, products, at)
	})
}

func restockAndSave(ctx context.Context, uow UoW, o *order.Order, apply func(productSet) error) error {
	ids := productIDsOf(o)
	productRepo := uow.ProductRepository()

	products, err := productRepo.GetForUpdateSorted(ctx, ids)
	if err != nil {
		return err
	}
	if err = apply(products); err != nil {
		return err
	}
	for _, id := range ids {
		if err = productRepo.UpdateStock(ctx, products[id]); err != nil {
			return err
		}
	}

	return uow.OrderRepository().Update(ctx, o)
}

// releaseEscrowLocked credits the shops of a completed order. The caller
// persists the order afterwards.
func releaseEscrowLocked(
	ctx context.Context,
	uow UoW,
	ledger services.EscrowLedger,
	o *order.Order,
	at time.Time,
) error {
	shopIDs := o.ShopIDs()
	shopRepo := uow.ShopRepository()

	shops, err := shopRepo.GetForUpdateSorted(ctx, shopIDs)
	if err != nil {
		return err
	}

	entries, err := ledger.Release(o, shops, at)
	if err != nil {
		return err
	}

	for _, id := range shopIDs {
		if err = shopRepo.UpdateBalance(ctx, shops[id]); err != nil {
			return err
		}
	}

	return shopRepo.AppendLedgerEntries(ctx, entries)
}

// statusNotification builds the buyer notification for the status o is in
// now, if that status is one users are told about.
func statusNotification(o *order.Order) (ports.Notification, bool) {
	var event ports.NotificationEvent
	switch o.Status() {
	case order.StatusDispatched:
		event = ports.EventOrderDispatched
	case order.StatusArrived:
		event = ports.EventOrderArrived
	case order.StatusCompleted:
		event = ports.EventOrderCompleted
	case order.StatusCancelled:
		event = ports.EventOrderCancelled
	default:
		return ports.Notification{}, false
	}

	n := ports.Notification{
		Event:   event,
		UserID:  o.BuyerID(),
		OrderID: o.ID(),
		Locale:  o.Locale(),
		Status:  o.Status().String(),
	}
	if event == ports.EventOrderArrived {
		code := o.OTPCode().String()
		n.OTPCode = &code
	}

	return n, true
}
