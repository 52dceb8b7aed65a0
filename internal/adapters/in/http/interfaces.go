package http

import (
	"context"

	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/application/usecases/queries"
	"campusmarket/internal/core/domain/services"
)

// Use case handlers the server depends on. The application handlers satisfy
// them as pointers; tests substitute mocks.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	PaymentConfirmer interface {
		Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) error
	}

	StatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
	}

	OTPValidator interface {
		Handle(ctx context.Context, cmd commands.ValidateOTPCommand) error
	}

	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}

	AdminStatusChanger interface {
		Handle(ctx context.Context, cmd commands.AdminChangeStatusCommand) error
	}

	AdminRefunder interface {
		Handle(ctx context.Context, cmd commands.AdminRefundCommand) error
	}

	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	OrderLister interface {
		HandleBuyer(ctx context.Context, query queries.ListBuyerOrdersQuery) ([]queries.OrderSummary, error)
		HandleShop(ctx context.Context, query queries.ListShopOrdersQuery) ([]queries.OrderSummary, error)
	}

	DeliveryQuoter interface {
		Handle(query queries.QuoteDeliveryQuery) (services.Quote, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder       OrderCreator
	ConfirmPayment    PaymentConfirmer
	ChangeStatus      StatusChanger
	ValidateOTP       OTPValidator
	CancelOrder       OrderCanceller
	AdminChangeStatus AdminStatusChanger
	AdminRefund       AdminRefunder
	GetOrder          OrderReader
	ListOrders        OrderLister
	QuoteDelivery     DeliveryQuoter
}
