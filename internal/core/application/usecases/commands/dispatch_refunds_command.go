package commands

import (
	"context"
	"errors"
	"log/slog"

	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
	"campusmarket/internal/pkg/retry"
)

var ErrDispatchRefundsCommandIsNotConstructed = errors.New(
	"DispatchRefundsCommand must be created via NewDispatchRefundsCommand constructor",
)

// DispatchRefundsCommand hands at most Limit pending refunds to the payment
// processor.
type DispatchRefundsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

func NewDispatchRefundsCommand(limit int) (DispatchRefundsCommand, error) {
	if limit <= 0 {
		return DispatchRefundsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return DispatchRefundsCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchRefundsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchRefundsCommandIsNotConstructed)
}

func (c DispatchRefundsCommand) Limit() int {
	return c.limit
}

// DispatchRefundsCommandHandler publishes refund requests for cancelled
// orders and records each hand-off. The request goes out before the order is
// marked, so a crash in between repeats the request on the next run; the
// processor deduplicates by order id.
type DispatchRefundsCommandHandler struct {
	uowFactory OrderUoWFactory
	tx         txRunner[OrderUoW]
	executor   ports.RefundExecutor
	logger     *slog.Logger
}

func NewDispatchRefundsCommandHandler(
	uowFactory OrderUoWFactory,
	executor ports.RefundExecutor,
	policy retry.Policy,
	logger *slog.Logger,
) DispatchRefundsCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return DispatchRefundsCommandHandler{
		uowFactory: uowFactory,
		tx:         newOrderTxRunner(uowFactory, policy),
		executor:   executor,
		logger:     logger,
	}
}

// Handle returns how many refunds were handed off. Failures of single
// orders are logged and left for the next run.
func (h *DispatchRefundsCommandHandler) Handle(ctx context.Context, cmd DispatchRefundsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.uowFactory.Create().OrderRepository().ListAwaitingRefundDispatch(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, o := range pending {
		if err = ctx.Err(); err != nil {
			return dispatched, err
		}

		if err = h.executor.RequestRefund(ctx, refundRequestOf(o)); err != nil {
			h.logger.ErrorContext(ctx, "refund request failed", "order_id", o.ID().String(), "error", err)
			continue
		}

		marked, err := h.markDispatched(ctx, o)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to record refund dispatch", "order_id", o.ID().String(), "error", err)
			continue
		}
		if marked {
			dispatched++
		}
	}

	return dispatched, nil
}

func (h *DispatchRefundsCommandHandler) markDispatched(ctx context.Context, listed *order.Order) (bool, error) {
	var marked bool
	err := h.tx.run(ctx, func(ctx context.Context, uow OrderUoW) error {
		marked = false
		repo := uow.OrderRepository()

		o, err := repo.GetForUpdate(ctx, listed.ID())
		if err != nil {
			return err
		}
		if err = o.MarkRefundDispatched(now()); err != nil {
			if errors.Is(err, order.ErrRefundNotAwaitingDispatch) {
				return nil
			}
			return err
		}
		if err = repo.Update(ctx, o); err != nil {
			return err
		}

		marked = true
		return nil
	})
	return marked, err
}

func refundRequestOf(o *order.Order) ports.RefundRequest {
	r := ports.RefundRequest{
		OrderID: o.ID(),
		BuyerID: o.BuyerID(),
		Amount:  o.Refund().Amount(),
	}
	if reason := o.CancellationReason(); reason != nil {
		r.Reason = *reason
	}
	if at := o.Refund().InitiatedAt(); at != nil {
		r.InitiatedAt = *at
	}
	return r
}
