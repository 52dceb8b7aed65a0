package kafka

import (
	"context"
	"time"

	"campusmarket/internal/core/ports"
)

// RefundRequestedMessage asks the payment processor to return the funds
// captured for an order. The processor refunds each order id at most once.
type RefundRequestedMessage struct {
	OrderID     string    `json:"order_id"`
	BuyerID     string    `json:"buyer_id"`
	Amount      string    `json:"amount"`
	Reason      string    `json:"reason"`
	InitiatedAt time.Time `json:"initiated_at"`
	RequestedAt time.Time `json:"requested_at"`
}

// RefundExecutor publishes refund requests to the refund-requested topic.
type RefundExecutor struct {
	writer MessageWriter
	clock  func() time.Time
}

func NewRefundExecutor(writer MessageWriter) *RefundExecutor {
	return &RefundExecutor{writer: writer, clock: time.Now}
}

func (e *RefundExecutor) RequestRefund(ctx context.Context, r ports.RefundRequest) error {
	at := e.clock().UTC()
	msg := RefundRequestedMessage{
		OrderID:     r.OrderID.String(),
		BuyerID:     r.BuyerID.String(),
		Amount:      r.Amount.Decimal().StringFixed(2),
		Reason:      r.Reason,
		InitiatedAt: r.InitiatedAt.UTC(),
		RequestedAt: at,
	}
	return publishJSON(ctx, e.writer, msg.OrderID, msg, at)
}

func (e *RefundExecutor) Close() error {
	return e.writer.Close()
}
