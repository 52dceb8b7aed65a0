package order

import (
	"slices"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

type edge struct {
	from Status
	to   Status
}

// transitions is the actor-gated lifecycle. ARRIVED -> COMPLETED exists but
// has no permitted role: only a successful OTP check performs it.
var transitions = map[edge][]kernel.Role{
	{StatusPending, StatusPaidEscrow}:    {kernel.RolePaymentGateway},
	{StatusPending, StatusCancelled}:     {kernel.RoleBuyer},
	{StatusPaidEscrow, StatusDispatched}: {kernel.RoleShopOwner},
	{StatusPaidEscrow, StatusCancelled}:  {kernel.RoleBuyer, kernel.RoleAdmin},
	{StatusDispatched, StatusArrived}:    {kernel.RoleRunner},
	{StatusArrived, StatusCompleted}:     {},
}

// IsTransitionDefined reports whether from -> to is an edge of the lifecycle,
// regardless of who asks for it.
func IsTransitionDefined(from, to Status) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// PermittedRoles returns the roles allowed to request from -> to.
func PermittedRoles(from, to Status) []kernel.Role {
	return slices.Clone(transitions[edge{from, to}])
}

// AuthorizeTransition checks the lifecycle table only. Resource ownership
// (the buyer of the order, the shop of its items) is checked by Order.
//
// Returns:
//   - errs.ErrInvalidTransition when from -> to is not an edge
//   - errs.ErrUnauthorizedAction when role may not request the edge
func AuthorizeTransition(from, to Status, role kernel.Role) error {
	roles, ok := transitions[edge{from, to}]
	if !ok {
		return errs.NewBusinessError(errs.CodeInvalidTransition, string(from)+" -> "+string(to)+" is not allowed")
	}
	if !slices.Contains(roles, role) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, role.String()+" may not move an order to "+string(to))
	}
	return nil
}
