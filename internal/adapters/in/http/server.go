package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const outcomeOK = "OK"

// Server exposes the order engine over HTTP.
// It coordinates between HTTP handlers and application use cases; every
// route under /api/v1 requires the identity headers.
type Server struct {
	handlers Handlers
	metrics  *metrics.ServerMetrics
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, m *metrics.ServerMetrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		metrics:  m,
		logger:   logger.With("component", "http_server"),
	}
}

// Register installs the request validator, the metrics middleware and the
// API routes on e.
func (s *Server) Register(e *echo.Echo) error {
	v, err := newRequestValidator()
	if err != nil {
		return err
	}
	e.Validator = v
	e.Use(s.metricsMiddleware)

	api := e.Group("/api/v1", s.actorMiddleware)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/status", s.ChangeStatus)
	api.POST("/orders/:orderId/otp", s.ValidateOTP)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.GET("/me/orders", s.ListMyOrders)
	api.GET("/shops/:shopId/orders", s.ListShopOrders)
	api.POST("/payments/captured", s.PaymentCaptured)
	api.GET("/delivery/quote", s.QuoteDelivery)

	admin := api.Group("/admin")
	admin.POST("/orders/:orderId/status", s.AdminChangeStatus)
	admin.POST("/orders/:orderId/refund", s.AdminRefund)

	return nil
}

// bind decodes and validates a JSON body. Malformed input is INVALID_REQUEST.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return c.Validate(dst)
}

func (s *Server) ok(c echo.Context, status int, body any) error {
	s.recordOutcome(c, outcomeOK)
	if body == nil {
		return c.NoContent(status)
	}
	return c.JSON(status, body)
}

// fail answers with the canonical code of err. Only INTERNAL_ERROR is logged;
// every other code is an expected answer.
func (s *Server) fail(c echo.Context, err error) error {
	code := errs.CodeOf(err)
	status := statusOf(code)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"route", c.Path(), "method", c.Request().Method, "error", err)
	}

	s.recordOutcome(c, string(code))
	return c.JSON(status, ErrorResponse{Code: code})
}

func (s *Server) recordOutcome(c echo.Context, code string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Outcomes.WithLabelValues(c.Path(), code).Inc()
}

func (s *Server) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.metrics == nil {
			return next(c)
		}

		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route, method := c.Path(), c.Request().Method
		s.metrics.Requests.WithLabelValues(route, method, strconv.Itoa(c.Response().Status)).Inc()
		s.metrics.LatencyMS.WithLabelValues(route, method).Observe(float64(time.Since(start).Milliseconds()))
		return nil
	}
}
