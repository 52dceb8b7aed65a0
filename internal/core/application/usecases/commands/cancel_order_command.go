package commands

import (
	"context"
	"errors"
	"log/slog"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/guard"
	"campusmarket/internal/pkg/retry"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	reason  string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, actor kernel.Actor, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		actor:   actor,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}

// CancelOrderCommandHandler cancels PENDING or PAID_ESCROW orders, returns
// their stock and, for paid orders, records the refund intent. The refund
// itself is handed to the payment processor later by DispatchRefundsCommandHandler.
type CancelOrderCommandHandler struct {
	tx          txRunner[UoW]
	coordinator services.CancellationCoordinator
	notifier    ports.Notifier
	logger      *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	coordinator services.CancellationCoordinator,
	notifier ports.Notifier,
	policy retry.Policy,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CancelOrderCommandHandler{
		tx:          newTxRunner(uowFactory, policy),
		coordinator: coordinator,
		notifier:    notifier,
		logger:      logger,
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var cancelled *order.Order
	err := h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		cancelled = nil

		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}
		if err = cancelLocked(ctx, uow, h.coordinator, o, cmd.Actor(), cmd.Reason(), now()); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	if n, ok := statusNotification(cancelled); ok {
		notifyAfterCommit(ctx, h.notifier, h.logger, n)
	}
	return nil
}
