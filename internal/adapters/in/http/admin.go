package http

import (
	"net/http"

	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// AdminChangeStatus handles POST /api/v1/admin/orders/:orderId/status -
// forces a status outside the normal lifecycle. The reason is audited.
//
//	@Summary	Force an order status
//	@Tags		admin
//	@Accept		json
//	@Param		orderId	path	string						true	"order id"
//	@Param		body	body	AdminChangeStatusRequest	true	"target status and reason"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Router		/admin/orders/{orderId}/status [post]
func (s *Server) AdminChangeStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	var req AdminChangeStatusRequest
	if err = bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdminChangeStatusCommand(orderID, actorOf(c), status, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AdminChangeStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}

// AdminRefund handles POST /api/v1/admin/orders/:orderId/refund.
//
//	@Summary	Cancel and refund an order
//	@Tags		admin
//	@Accept		json
//	@Param		orderId	path	string				true	"order id"
//	@Param		body	body	AdminRefundRequest	true	"reason"
//	@Success	204
//	@Failure	409	{object}	ErrorResponse
//	@Router		/admin/orders/{orderId}/refund [post]
func (s *Server) AdminRefund(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	var req AdminRefundRequest
	if err = bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdminRefundCommand(orderID, actorOf(c), req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AdminRefund.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}
