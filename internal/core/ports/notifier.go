package ports

import (
	"context"

	"campusmarket/internal/core/domain/model/kernel"
)

// NotificationEvent names the lifecycle moment a user is told about.
type NotificationEvent string

const (
	EventOrderDispatched NotificationEvent = "ORDER_DISPATCHED"
	EventOrderArrived    NotificationEvent = "ORDER_ARRIVED"
	EventOrderCompleted  NotificationEvent = "ORDER_COMPLETED"
	EventOrderCancelled  NotificationEvent = "ORDER_CANCELLED"
)

// Notification is handed to the notification collaborator after a commit.
// OTPCode is only set on arrival, when the buyer needs it for hand-over.
type Notification struct {
	Event   NotificationEvent
	UserID  kernel.UUID
	OrderID kernel.UUID
	OTPCode *string
	Locale  string
	Status  string
}

// Notifier delivers notifications. Failures are logged by the caller and
// never undo the committed transition.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
