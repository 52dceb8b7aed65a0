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

var ErrAdminChangeStatusCommandIsNotConstructed = errors.New(
	"AdminChangeStatusCommand must be created via NewAdminChangeStatusCommand constructor",
)

// AdminChangeStatusCommand forces an order into any status. It exists for
// operator intervention and is always audited.
type AdminChangeStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	admin   kernel.Actor
	status  order.Status
	reason  string

	guard guard.ConstructorGuard
}

// NewAdminChangeStatusCommand requires a known target status and a
// non-blank reason.
func NewAdminChangeStatusCommand(
	orderID kernel.UUID,
	admin kernel.Actor,
	status order.Status,
	reason string,
) (AdminChangeStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		admin.Validate(),
		status.Validate(),
		requireReason(reason),
	); err != nil {
		return AdminChangeStatusCommand{}, err
	}

	return AdminChangeStatusCommand{
		orderID: orderID,
		admin:   admin,
		status:  status,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdminChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdminChangeStatusCommandIsNotConstructed)
}

func (c AdminChangeStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdminChangeStatusCommand) Admin() kernel.Actor {
	return c.admin
}

func (c AdminChangeStatusCommand) Status() order.Status {
	return c.status
}

func (c AdminChangeStatusCommand) Reason() string {
	return c.reason
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	return nil
}

// AdminChangeStatusCommandHandler applies the override and its audit entry
// in one unit of work. Forcing COMPLETED releases escrow if that never
// happened; forcing away from COMPLETED never takes funds back.
type AdminChangeStatusCommandHandler struct {
	tx       txRunner[UoW]
	ledger   services.EscrowLedger
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewAdminChangeStatusCommandHandler(
	uowFactory UoWFactory,
	ledger services.EscrowLedger,
	notifier ports.Notifier,
	policy retry.Policy,
	logger *slog.Logger,
) AdminChangeStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AdminChangeStatusCommandHandler{
		tx:       newTxRunner(uowFactory, policy),
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *AdminChangeStatusCommandHandler) Handle(ctx context.Context, cmd AdminChangeStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Admin().Is(kernel.RoleAdmin) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "only admins override status")
	}

	var changed *order.Order
	err := h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		changed = nil

		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		at := now()
		previous, err := o.ForceStatus(cmd.Status(), cmd.Admin(), cmd.Reason(), at)
		if err != nil {
			return err
		}

		if o.NeedsEscrowRelease() {
			if err = releaseEscrowLocked(ctx, uow, h.ledger, o, at); err != nil {
				return err
			}
		}

		entry, err := audit.NewEntry(
			kernel.NewUUID(), cmd.Admin(), o.ID(), audit.ActionForceStatus,
			previous, o.Status(), cmd.Reason(), at,
		)
		if err != nil {
			return err
		}
		if err = uow.AuditRepository().Append(ctx, entry); err != nil {
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
