package http

import (
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the upstream identity layer. Their values are
// trusted as verified.
const (
	HeaderActorID     = "X-Actor-ID"
	HeaderActorRole   = "X-Actor-Role"
	HeaderActorShopID = "X-Actor-Shop-ID"
)

const actorContextKey = "actor"

// actorMiddleware rejects requests without a usable identity with
// UNAUTHORIZED and stores the actor for the route handlers.
func (s *Server) actorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFromHeaders(c)
		if err != nil {
			return s.fail(c, errs.NewBusinessErrorWithCause(errs.CodeUnauthorized, "missing or invalid identity", err))
		}
		c.Set(actorContextKey, actor)
		return next(c)
	}
}

func actorFromHeaders(c echo.Context) (kernel.Actor, error) {
	h := c.Request().Header

	id, err := kernel.UUIDFromString(h.Get(HeaderActorID))
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(h.Get(HeaderActorRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	var shopID *kernel.UUID
	if raw := h.Get(HeaderActorShopID); raw != "" {
		sid, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return kernel.Actor{}, parseErr
		}
		shopID = &sid
	}

	// Only shop owners carry a shop; the header is ignored for other roles.
	if role != kernel.RoleShopOwner {
		shopID = nil
	}
	return kernel.NewActor(id, role, shopID)
}

func actorOf(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorContextKey).(kernel.Actor)
	return actor
}
