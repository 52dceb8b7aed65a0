package ports

import (
	"context"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
)

// RefundRequest asks the payment processor collaborator to return the
// captured funds of an order.
type RefundRequest struct {
	OrderID     kernel.UUID
	BuyerID     kernel.UUID
	Amount      kernel.Money
	Reason      string
	InitiatedAt time.Time
}

// RefundExecutor hands refund requests to the payment processor. Delivery is
// at least once; the processor deduplicates by OrderID.
type RefundExecutor interface {
	RequestRefund(ctx context.Context, r RefundRequest) error
}
