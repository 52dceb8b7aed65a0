package ports

import (
	"context"

	"campusmarket/internal/core/domain/model/audit"
	"campusmarket/internal/core/domain/model/kernel"
)

// AuditRepository stores the admin audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry audit.Entry) error

	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]audit.Entry, error)
}
