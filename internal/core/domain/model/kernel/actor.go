package kernel

import (
	"errors"
	"fmt"

	"campusmarket/internal/pkg/errs"
)

// Role is the verified role of the caller, supplied by the identity layer.
type Role string

const (
	RoleBuyer          Role = "BUYER"
	RoleShopOwner      Role = "SHOP_OWNER"
	RoleRunner         Role = "RUNNER"
	RoleAdmin          Role = "ADMIN"
	RolePaymentGateway Role = "PAYMENT_GATEWAY"
)

// ParseRole converts the wire name of a role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleBuyer, RoleShopOwner, RoleRunner, RoleAdmin, RolePaymentGateway:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the identity performing an operation. Shop owners carry the
// shop they act for.
type Actor struct {
	id     UUID
	role   Role
	shopID *UUID
}

// NewActor validates an identity. A shop owner must name a shop; other
// roles must not.
func NewActor(id UUID, role Role, shopID *UUID) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}

	if role == RoleShopOwner {
		if shopID == nil {
			return Actor{}, errs.NewValueIsRequiredError("shopID")
		}
		if err := shopID.Validate(); err != nil {
			return Actor{}, err
		}
		sid := *shopID
		return Actor{id: id, role: role, shopID: &sid}, nil
	}

	return Actor{id: id, role: role}, nil
}

// MustActor is NewActor for tests and fixtures. It panics on invalid input.
func MustActor(id UUID, role Role, shopID *UUID) Actor {
	a, err := NewActor(id, role, shopID)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// ShopID returns the shop a shop owner acts for.
func (a Actor) ShopID() (UUID, bool) {
	if a.shopID == nil {
		return UUID{}, false
	}
	return *a.shopID, true
}

func (a Actor) Is(role Role) bool {
	return a.role == role
}

// Validate rejects the zero Actor.
func (a Actor) Validate() error {
	return errors.Join(a.id.Validate(), a.role.Validate())
}
