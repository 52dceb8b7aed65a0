// Package queries contains the read side of the order engine. Handlers read
// with plain SQL through GORM and never lock rows.
package queries

import (
	"errors"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of viewer.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, viewer)
//	if err != nil {
//	    return err
//	}
//	view, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	viewer  kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, viewer kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), viewer.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		viewer:  viewer,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Viewer() kernel.Actor {
	return q.viewer
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderView is the full read model of an order.
//
// OTPCode is only filled for the buyer, who shows it to the runner at
// hand-over, and only while the order is still on its way.
type OrderView struct {
	ID                 kernel.UUID
	BuyerID            kernel.UUID
	Campus             kernel.Campus
	Locale             string
	Status             order.Status
	Items              []OrderItemView
	TotalAmount        kernel.Money
	DeliveryFee        kernel.Money
	ETA                kernel.ETA
	OTPCode            *string
	OTPAttempts        int
	Locked             bool
	CancellationReason *string
	RefundInitiated    bool
	RefundAmount       *kernel.Money
	EscrowReleasedAt   *time.Time
	History            []StatusChangeView
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItemView struct {
	LineNo          int
	ProductID       kernel.UUID
	ShopID          kernel.UUID
	ProductName     string
	Quantity        int
	PriceAtPurchase kernel.Money
	OriginCity      kernel.City
}

type StatusChangeView struct {
	From      order.Status
	To        order.Status
	At        time.Time
	ActorID   kernel.UUID
	ActorRole kernel.Role
}
