package http

import (
	"net/http"

	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/application/usecases/queries"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders - places an order for the buyer's cart.
//
//	@Summary	Place an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateOrderRequest	true	"cart"
//	@Success	201		{object}	OrderResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/orders [post]
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	lines, err := cartLinesOf(req.Items)
	if err != nil {
		return s.fail(c, err)
	}
	campus, err := kernel.ParseCampus(req.Campus)
	if err != nil {
		return s.fail(c, err)
	}

	buyer := actorOf(c)
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, buyer, campus, req.Locale, lines)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, buyer)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusCreated, orderResponseOf(view))
}

// GetOrder handles GET /api/v1/orders/:orderId.
//
//	@Summary	Read an order
//	@Tags		orders
//	@Produce	json
//	@Param		orderId	path		string	true	"order id"
//	@Success	200		{object}	OrderResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/orders/{orderId} [get]
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actorOf(c))
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusOK, orderResponseOf(view))
}

// ListMyOrders handles GET /api/v1/me/orders - the caller's orders, newest first.
//
//	@Summary	List own orders
//	@Tags		orders
//	@Produce	json
//	@Param		limit	query		int	false	"page size"
//	@Param		offset	query		int	false	"page offset"
//	@Success	200		{array}		OrderSummaryResponse
//	@Router		/me/orders [get]
func (s *Server) ListMyOrders(c echo.Context) error {
	page, err := pageOf(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewListBuyerOrdersQuery(actorOf(c), page)
	if err != nil {
		return s.fail(c, err)
	}
	summaries, err := s.handlers.ListOrders.HandleBuyer(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusOK, summaryResponsesOf(summaries))
}

// ListShopOrders handles GET /api/v1/shops/:shopId/orders.
//
//	@Summary	List orders containing a shop's items
//	@Tags		orders
//	@Produce	json
//	@Param		shopId	path		string	true	"shop id"
//	@Success	200		{array}		OrderSummaryResponse
//	@Router		/shops/{shopId}/orders [get]
func (s *Server) ListShopOrders(c echo.Context) error {
	shopID, err := pathUUID(c, "shopId")
	if err != nil {
		return s.fail(c, err)
	}
	page, err := pageOf(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewListShopOrdersQuery(shopID, actorOf(c), page)
	if err != nil {
		return s.fail(c, err)
	}
	summaries, err := s.handlers.ListOrders.HandleShop(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusOK, summaryResponsesOf(summaries))
}

// ChangeStatus handles POST /api/v1/orders/:orderId/status - actor-gated transitions.
//
//	@Summary	Advance an order
//	@Tags		orders
//	@Accept		json
//	@Param		orderId	path	string				true	"order id"
//	@Param		body	body	ChangeStatusRequest	true	"target status"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/orders/{orderId}/status [post]
func (s *Server) ChangeStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	var req ChangeStatusRequest
	if err = bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorOf(c), status, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ChangeStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}

// ValidateOTP handles POST /api/v1/orders/:orderId/otp - the runner's hand-over code.
//
//	@Summary	Confirm delivery with the buyer's code
//	@Tags		orders
//	@Accept		json
//	@Param		orderId	path	string				true	"order id"
//	@Param		body	body	ValidateOTPRequest	true	"code"
//	@Success	204
//	@Failure	422	{object}	ErrorResponse
//	@Failure	423	{object}	ErrorResponse
//	@Router		/orders/{orderId}/otp [post]
func (s *Server) ValidateOTP(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	var req ValidateOTPRequest
	if err = bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewValidateOTPCommand(orderID, actorOf(c), req.Code)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ValidateOTP.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
//
//	@Summary	Cancel an order
//	@Tags		orders
//	@Accept		json
//	@Param		orderId	path	string				true	"order id"
//	@Param		body	body	CancelOrderRequest	false	"reason"
//	@Success	204
//	@Failure	409	{object}	ErrorResponse
//	@Router		/orders/{orderId}/cancel [post]
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	var req CancelOrderRequest
	if err = bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorOf(c), req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}

// PaymentCaptured handles POST /api/v1/payments/captured - the gateway's capture signal.
//
//	@Summary	Record a captured payment
//	@Tags		payments
//	@Accept		json
//	@Param		body	body	PaymentCapturedRequest	true	"order"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Router		/payments/captured [post]
func (s *Server) PaymentCaptured(c echo.Context) error {
	var req PaymentCapturedRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	orderID, err := bodyUUID("orderId", req.OrderID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, actorOf(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ConfirmPayment.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusNoContent, nil)
}

// QuoteDelivery handles GET /api/v1/delivery/quote?campus=...&origin=...
// Repeating origin quotes a cart with shops in several cities.
//
//	@Summary	Quote a delivery fee
//	@Tags		delivery
//	@Produce	json
//	@Param		campus	query		string		true	"destination campus"
//	@Param		origin	query		[]string	true	"shop cities"	collectionFormat(multi)
//	@Success	200		{object}	QuoteResponse
//	@Router		/delivery/quote [get]
func (s *Server) QuoteDelivery(c echo.Context) error {
	var (
		rawCampus  string
		rawOrigins []string
	)
	if err := echo.QueryParamsBinder(c).
		String("campus", &rawCampus).
		Strings("origin", &rawOrigins).
		BindError(); err != nil {
		return s.fail(c, invalidQuery(err))
	}

	campus, err := kernel.ParseCampus(rawCampus)
	if err != nil {
		return s.fail(c, err)
	}
	origins := make([]kernel.City, len(rawOrigins))
	for i, raw := range rawOrigins {
		if origins[i], err = kernel.ParseCity(raw); err != nil {
			return s.fail(c, err)
		}
	}

	query, err := queries.NewQuoteDeliveryQuery(origins, campus)
	if err != nil {
		return s.fail(c, err)
	}
	quote, err := s.handlers.QuoteDelivery.Handle(query)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, http.StatusOK, quoteResponseOf(quote))
}

func pageOf(c echo.Context) (queries.Page, error) {
	var page queries.Page
	if err := echo.QueryParamsBinder(c).
		Int("limit", &page.Limit).
		Int("offset", &page.Offset).
		BindError(); err != nil {
		return queries.Page{}, invalidQuery(err)
	}
	return page, nil
}
