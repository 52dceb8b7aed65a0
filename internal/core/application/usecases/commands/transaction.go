package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/retry"
)

// committedFailure is returned from a unit of work body whose changes must
// be committed even though the caller receives an error.
type committedFailure struct {
	err error
}

func (f committedFailure) Error() string {
	return f.err.Error()
}

func (f committedFailure) Unwrap() error {
	return f.err
}

// commitAndFail commits the unit of work and then reports err.
func commitAndFail(err error) error {
	return committedFailure{err: err}
}

// txRunner executes unit of work bodies with retries on store conflicts.
type txRunner[U TxManager] struct {
	create func() U
	policy retry.Policy
}

// run executes fn in a fresh unit of work per attempt.
func (r txRunner[U]) run(ctx context.Context, fn func(ctx context.Context, uow U) error) error {
	var outcome error

	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		outcome = nil

		uow := r.create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := fn(ctx, uow); err != nil {
			var cf committedFailure
			if !errors.As(err, &cf) {
				return err
			}
			outcome = cf.err
		}

		return uow.Commit(ctx)
	})
	if err != nil {
		return err
	}

	return outcome
}

func newTxRunner(factory UoWFactory, policy retry.Policy) txRunner[UoW] {
	return txRunner[UoW]{create: factory.Create, policy: policy}
}

func newOrderTxRunner(factory OrderUoWFactory, policy retry.Policy) txRunner[OrderUoW] {
	return txRunner[OrderUoW]{create: factory.Create, policy: policy}
}

// notifyAfterCommit hands n to the notifier. Failures are logged and
// swallowed; the transition is already committed.
func notifyAfterCommit(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, n ports.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		logger.ErrorContext(ctx, "notification failed",
			"order_id", n.OrderID.String(),
			"event", string(n.Event),
			"error", err,
		)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
