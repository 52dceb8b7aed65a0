package order

import (
	"time"

	"campusmarket/internal/core/domain/model/kernel"
)

// Refund is the refund intent recorded when a paid order is cancelled.
// The zero value means no refund was initiated; it is persisted as an
// explicit false, never as a missing field.
type Refund struct {
	initiated    bool
	amount       kernel.Money
	initiatedAt  *time.Time
	dispatchedAt *time.Time
}

// NoRefund is the explicit state of an order cancelled before payment.
func NoRefund() Refund {
	return Refund{}
}

// RestoreRefund rebuilds refund state from storage.
func RestoreRefund(initiated bool, amount kernel.Money, initiatedAt, dispatchedAt *time.Time) Refund {
	return Refund{
		initiated:    initiated,
		amount:       amount,
		initiatedAt:  copyTime(initiatedAt),
		dispatchedAt: copyTime(dispatchedAt),
	}
}

func initiatedRefund(amount kernel.Money, at time.Time) Refund {
	at = at.UTC()
	return Refund{initiated: true, amount: amount, initiatedAt: &at}
}

func (r Refund) Initiated() bool {
	return r.initiated
}

func (r Refund) Amount() kernel.Money {
	return r.amount
}

func (r Refund) InitiatedAt() *time.Time {
	return copyTime(r.initiatedAt)
}

// DispatchedAt is set once the refund request was handed to the payment processor.
func (r Refund) DispatchedAt() *time.Time {
	return copyTime(r.dispatchedAt)
}

// AwaitingDispatch reports whether the refund still has to be requested.
func (r Refund) AwaitingDispatch() bool {
	return r.initiated && r.dispatchedAt == nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
