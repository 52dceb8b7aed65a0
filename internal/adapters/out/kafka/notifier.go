package kafka

import (
	"context"
	"time"

	"campusmarket/internal/core/ports"
)

// NotificationMessage is the wire form of a post-commit notification.
type NotificationMessage struct {
	Event      string    `json:"event"`
	UserID     string    `json:"user_id"`
	OrderID    string    `json:"order_id"`
	OTPCode    *string   `json:"otp_code,omitempty"`
	Locale     string    `json:"locale"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes notifications to the order-changed topic.
type Notifier struct {
	writer MessageWriter
	clock  func() time.Time
}

func NewNotifier(writer MessageWriter) *Notifier {
	return &Notifier{writer: writer, clock: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	at := n.clock().UTC()
	msg := NotificationMessage{
		Event:      string(notification.Event),
		UserID:     notification.UserID.String(),
		OrderID:    notification.OrderID.String(),
		OTPCode:    notification.OTPCode,
		Locale:     notification.Locale,
		Status:     notification.Status,
		OccurredAt: at,
	}
	return publishJSON(ctx, n.writer, msg.OrderID, msg, at)
}

// Close flushes and closes the underlying writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
