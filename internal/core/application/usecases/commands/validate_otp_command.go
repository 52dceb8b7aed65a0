package commands

import (
	"context"
	"errors"
	"log/slog"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
	"campusmarket/internal/pkg/retry"
)

var ErrValidateOTPCommandIsNotConstructed = errors.New(
	"ValidateOTPCommand must be created via NewValidateOTPCommand constructor",
)

// ValidateOTPCommand is a runner typing in the buyer's code at hand-over.
type ValidateOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	runner  kernel.Actor
	code    order.OTPCode

	guard guard.ConstructorGuard
}

// NewValidateOTPCommand rejects anything that is not exactly six digits with
// errs.ErrInvalidOTPFormat, so malformed input never costs an attempt.
func NewValidateOTPCommand(orderID kernel.UUID, runner kernel.Actor, code string) (ValidateOTPCommand, error) {
	parsed, codeErr := order.ParseOTPCode(code)
	if err := errors.Join(orderID.Validate(), runner.Validate(), codeErr); err != nil {
		return ValidateOTPCommand{}, err
	}

	return ValidateOTPCommand{
		orderID: orderID,
		runner:  runner,
		code:    parsed,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ValidateOTPCommand) Validate() error {
	return c.guard.Validate(ErrValidateOTPCommandIsNotConstructed)
}

func (c ValidateOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ValidateOTPCommand) Runner() kernel.Actor {
	return c.runner
}

func (c ValidateOTPCommand) Code() order.OTPCode {
	return c.code
}

// ValidateOTPCommandHandler completes delivered orders and releases their
// escrow in the same unit of work.
type ValidateOTPCommandHandler struct {
	tx       txRunner[UoW]
	ledger   services.EscrowLedger
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewValidateOTPCommandHandler(
	uowFactory UoWFactory,
	ledger services.EscrowLedger,
	notifier ports.Notifier,
	policy retry.Policy,
	logger *slog.Logger,
) ValidateOTPCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ValidateOTPCommandHandler{
		tx:       newTxRunner(uowFactory, policy),
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle verifies the code. A wrong code is committed as a spent attempt
// before errs.ErrInvalidOTP or errs.ErrOrderLocked is returned. The right
// code completes the order and credits every shop exactly once, however many
// runners submit it concurrently: the order row lock serialises them and the
// second one finds the order no longer ARRIVED.
func (h *ValidateOTPCommandHandler) Handle(ctx context.Context, cmd ValidateOTPCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Runner().Is(kernel.RoleRunner) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "only runners confirm delivery")
	}

	var completed *order.Order
	err := h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		completed = nil
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		at := now()
		recorded, verifyErr := o.VerifyOTP(cmd.Code(), cmd.Runner(), at)
		if verifyErr != nil {
			if !recorded {
				return verifyErr
			}
			if err = orderRepo.Update(ctx, o); err != nil {
				return err
			}
			return commitAndFail(verifyErr)
		}

		if err = releaseEscrowLocked(ctx, uow, h.ledger, o, at); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		completed = o
		return nil
	})
	if err != nil {
		return err
	}

	if n, ok := statusNotification(completed); ok {
		notifyAfterCommit(ctx, h.notifier, h.logger, n)
	}
	return nil
}
