// Package ports defines the contracts between the order engine and the
// infrastructure around it: repositories bound to a unit of work, and the
// collaborators called after a commit.
package ports

import (
	"context"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates with their items and history.
type OrderRepository interface {
	// Add persists a new order. The order must not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the current state of an order loaded in the same unit of
	// work. It fails with errs.ErrVersionIsInvalid when another unit of work
	// changed the order since it was read.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the unit of work ends.
	// Every read-modify-write of an order goes through it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListAwaitingRefundDispatch returns up to limit cancelled orders whose
	// refund was initiated but not yet handed to the payment processor,
	// oldest first.
	ListAwaitingRefundDispatch(ctx context.Context, limit int) ([]*order.Order, error)
}
