package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"campusmarket/internal/core/domain/model/audit"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
	"campusmarket/internal/pkg/retry"
)

var ErrAdminRefundCommandIsNotConstructed = errors.New(
	"AdminRefundCommand must be created via NewAdminRefundCommand constructor",
)

type AdminRefundCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	admin   kernel.Actor
	reason  string

	guard guard.ConstructorGuard
}

func NewAdminRefundCommand(orderID kernel.UUID, admin kernel.Actor, reason string) (AdminRefundCommand, error) {
	if err := errors.Join(orderID.Validate(), admin.Validate(), requireReason(reason)); err != nil {
		return AdminRefundCommand{}, err
	}

	return AdminRefundCommand{
		orderID: orderID,
		admin:   admin,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdminRefundCommand) Validate() error {
	return c.guard.Validate(ErrAdminRefundCommandIsNotConstructed)
}

func (c AdminRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdminRefundCommand) Admin() kernel.Actor {
	return c.admin
}

func (c AdminRefundCommand) Reason() string {
	return c.reason
}

// AdminRefundCommandHandler cancels a paid order at any point before
// completion, returns its stock and records the refund intent together with
// a REFUND audit entry.
type AdminRefundCommandHandler struct {
	tx          txRunner[UoW]
	coordinator services.CancellationCoordinator
	notifier    ports.Notifier
	logger      *slog.Logger
}

func NewAdminRefundCommandHandler(
	uowFactory UoWFactory,
	coordinator services.CancellationCoordinator,
	notifier ports.Notifier,
	policy retry.Policy,
	logger *slog.Logger,
) AdminRefundCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AdminRefundCommandHandler{
		tx:          newTxRunner(uowFactory, policy),
		coordinator: coordinator,
		notifier:    notifier,
		logger:      logger,
	}
}

func (h *AdminRefundCommandHandler) Handle(ctx context.Context, cmd AdminRefundCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Admin().Is(kernel.RoleAdmin) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "only admins issue refunds")
	}

	var refunded *order.Order
	err := h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		refunded = nil

		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		at := now()
		previous := o.Status()
		if err = refundLocked(ctx, uow, h.coordinator, o, cmd.Admin(), cmd.Reason(), at); err != nil {
			return err
		}

		entry, err := audit.NewEntry(
			kernel.NewUUID(), cmd.Admin(), o.ID(), audit.ActionRefund,
			previous, o.Status(), cmd.Reason(), at,
		)
		if err != nil {
			return err
		}
		if err = uow.AuditRepository().Append(ctx, entry); err != nil {
			return err
		}

		refunded = o
		return nil
	})
	if err != nil {
		return err
	}

	if n, ok := statusNotification(refunded); ok {
		notifyAfterCommit(ctx, h.notifier, h.logger, n)
	}
	return nil
}
