// Package logsink stands in for the notification and payment collaborators
// when no broker is configured: every call becomes one structured log line.
package logsink

import (
	"context"
	"log/slog"

	"campusmarket/internal/core/ports"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With("component", "notifier")}
}

// Notify logs the notification. The OTP is logged only as present or absent.
func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"event", string(notification.Event),
		"user_id", notification.UserID.String(),
		"order_id", notification.OrderID.String(),
		"locale", notification.Locale,
		"status", notification.Status,
		"has_otp", notification.OTPCode != nil,
	)
	return nil
}

type RefundExecutor struct {
	logger *slog.Logger
}

func NewRefundExecutor(logger *slog.Logger) *RefundExecutor {
	return &RefundExecutor{logger: logger.With("component", "refund_executor")}
}

func (e *RefundExecutor) RequestRefund(ctx context.Context, r ports.RefundRequest) error {
	e.logger.InfoContext(ctx, "refund requested",
		"order_id", r.OrderID.String(),
		"buyer_id", r.BuyerID.String(),
		"amount", r.Amount.String(),
		"reason", r.Reason,
		"initiated_at", r.InitiatedAt,
	)
	return nil
}
