package order

import (
	"fmt"

	"campusmarket/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PENDING ──> PAID_ESCROW ──> DISPATCHED ──> ARRIVED ──(OTP)──> COMPLETED
//	   │             │
//	   └─────────────┴──> CANCELLED
//
// COMPLETED and CANCELLED are terminal for every path except the admin override.
type Status string

const (
	// StatusNone is the "from" side of the first history entry.
	StatusNone Status = ""

	StatusPending    Status = "PENDING"
	StatusPaidEscrow Status = "PAID_ESCROW"
	StatusDispatched Status = "DISPATCHED"
	StatusArrived    Status = "ARRIVED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusPaidEscrow,
		StatusDispatched,
		StatusArrived,
		StatusCompleted,
		StatusCancelled,
	}
}

// ParseStatus converts the wire name of a status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate rejects StatusNone and unknown names.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaidEscrow, StatusDispatched, StatusArrived, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the normal lifecycle ends at s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
