package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every attempt of a command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the atomic read-modify-write boundary. Work done inside it
// must be safe to repeat from scratch: the caller may retry the whole unit on
// a serialization conflict. No notification or other external call belongs
// between Begin and Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. It is safe after Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ShopRepository() ShopRepository
	ProductRepository() ProductRepository
	AuditRepository() AuditRepository
}
