package order

import (
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
)

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	from      Status
	to        Status
	at        time.Time
	actorID   kernel.UUID
	actorRole kernel.Role
}

// NewStatusChange records a move to a valid status. from is StatusNone only
// for the entry written at creation.
func NewStatusChange(from, to Status, at time.Time, actorID kernel.UUID, actorRole kernel.Role) (StatusChange, error) {
	var fromErr error
	if from != StatusNone {
		fromErr = from.Validate()
	}
	if err := errors.Join(fromErr, to.Validate(), actorID.Validate(), actorRole.Validate()); err != nil {
		return StatusChange{}, err
	}

	return StatusChange{
		from:      from,
		to:        to,
		at:        at.UTC(),
		actorID:   actorID,
		actorRole: actorRole,
	}, nil
}

func (c StatusChange) From() Status {
	return c.from
}

func (c StatusChange) To() Status {
	return c.to
}

func (c StatusChange) At() time.Time {
	return c.at
}

func (c StatusChange) ActorID() kernel.UUID {
	return c.actorID
}

func (c StatusChange) ActorRole() kernel.Role {
	return c.actorRole
}
