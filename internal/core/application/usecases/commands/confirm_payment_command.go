package commands

import (
	"context"
	"errors"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand carries the payment processor's capture signal.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	gateway kernel.Actor

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(orderID kernel.UUID, gateway kernel.Actor) (ConfirmPaymentCommand, error) {
	if err := errors.Join(orderID.Validate(), gateway.Validate()); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		orderID: orderID,
		gateway: gateway,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmPaymentCommand) Gateway() kernel.Actor {
	return c.gateway
}

// ConfirmPaymentCommandHandler moves a PENDING order into escrow.
type ConfirmPaymentCommandHandler struct {
	statuses *ChangeOrderStatusCommandHandler
}

func NewConfirmPaymentCommandHandler(statuses *ChangeOrderStatusCommandHandler) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{statuses: statuses}
}

func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Gateway().Is(kernel.RolePaymentGateway) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "payment signals come from the gateway")
	}

	change, err := NewChangeOrderStatusCommand(cmd.OrderID(), cmd.Gateway(), order.StatusPaidEscrow, "")
	if err != nil {
		return err
	}
	return h.statuses.Handle(ctx, change)
}
