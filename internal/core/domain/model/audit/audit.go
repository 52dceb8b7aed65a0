// Package audit records privileged actions taken through the admin override.
package audit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"
)

// Action names what the admin did.
type Action string

const (
	ActionForceStatus Action = "FORCE_STATUS"
	ActionRefund      Action = "REFUND"
)

func (a Action) Validate() error {
	switch a {
	case ActionForceStatus, ActionRefund:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not an audit action", string(a)))
}

// Entry is one immutable audit trail record.
type Entry struct {
	id        kernel.UUID
	adminID   kernel.UUID
	orderID   kernel.UUID
	action    Action
	oldStatus order.Status
	newStatus order.Status
	reason    string
	createdAt time.Time
}

// NewEntry requires an ADMIN actor and a non-blank, human-entered reason.
func NewEntry(
	id kernel.UUID,
	admin kernel.Actor,
	orderID kernel.UUID,
	action Action,
	oldStatus, newStatus order.Status,
	reason string,
	now time.Time,
) (Entry, error) {
	if !admin.Is(kernel.RoleAdmin) {
		return Entry{}, errs.NewBusinessError(errs.CodeUnauthorizedAction, "only admins write the audit trail")
	}

	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		action.Validate(),
		oldStatus.Validate(),
		newStatus.Validate(),
		reasonErr,
	); err != nil {
		return Entry{}, err
	}

	return Entry{
		id:        id,
		adminID:   admin.ID(),
		orderID:   orderID,
		action:    action,
		oldStatus: oldStatus,
		newStatus: newStatus,
		reason:    reason,
		createdAt: now.UTC(),
	}, nil
}

// RestoreEntry rebuilds an entry loaded from storage; it performs no checks.
func RestoreEntry(
	id, adminID, orderID kernel.UUID,
	action Action,
	oldStatus, newStatus order.Status,
	reason string,
	createdAt time.Time,
) Entry {
	return Entry{
		id:        id,
		adminID:   adminID,
		orderID:   orderID,
		action:    action,
		oldStatus: oldStatus,
		newStatus: newStatus,
		reason:    reason,
		createdAt: createdAt.UTC(),
	}
}

func (e Entry) ID() kernel.UUID         { return e.id }
func (e Entry) AdminID() kernel.UUID    { return e.adminID }
func (e Entry) OrderID() kernel.UUID    { return e.orderID }
func (e Entry) Action() Action          { return e.action }
func (e Entry) OldStatus() order.Status { return e.oldStatus }
func (e Entry) NewStatus() order.Status { return e.newStatus }
func (e Entry) Reason() string          { return e.reason }
func (e Entry) CreatedAt() time.Time    { return e.createdAt }
