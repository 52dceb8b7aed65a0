package commands

import (
	"context"
	"log/slog"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/retry"
)

// ChangeOrderStatusCommandHandler applies the actor-gated lifecycle steps.
// A CANCELLED target takes the same path as an explicit cancellation.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, runner, order.StatusArrived, "")
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err // errs.CodeOf(err) is INVALID_TRANSITION, UNAUTHORIZED_ACTION, ...
//	}
//	// the buyer has been sent the OTP
type ChangeOrderStatusCommandHandler struct {
	tx          txRunner[UoW]
	coordinator services.CancellationCoordinator
	notifier    ports.Notifier
	logger      *slog.Logger
}

func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	coordinator services.CancellationCoordinator,
	notifier ports.Notifier,
	policy retry.Policy,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ChangeOrderStatusCommandHandler{
		tx:          newTxRunner(uowFactory, policy),
		coordinator: coordinator,
		notifier:    notifier,
		logger:      logger,
	}
}

func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var changed *order.Order
	err := h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		changed = nil

		actor := cmd.Actor()
		if actor.Is(kernel.RoleShopOwner) {
			if err := checkShopOwnership(ctx, uow.ShopRepository(), actor); err != nil {
				return err
			}
		}

		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if cmd.Status() == order.StatusCancelled {
			if err = cancelLocked(ctx, uow, h.coordinator, o, actor, cmd.Reason(), now()); err != nil {
				return err
			}
			changed = o
			return nil
		}

		if err = o.Advance(cmd.Status(), actor, now()); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		changed = o
		return nil
	})
	if err != nil {
		return err
	}

	if n, ok := statusNotification(changed); ok {
		notifyAfterCommit(ctx, h.notifier, h.logger, n)
	}
	return nil
}

// checkShopOwnership confirms the shop named by a shop owner actor exists
// and belongs to them.
func checkShopOwnership(ctx context.Context, shops ports.ShopRepository, actor kernel.Actor) error {
	shopID, ok := actor.ShopID()
	if !ok {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "shop owner without a shop")
	}

	s, err := shops.Get(ctx, shopID)
	if err != nil {
		return err
	}
	if !s.OwnerID().IsEqual(actor.ID()) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "shop belongs to another owner")
	}
	return nil
}
