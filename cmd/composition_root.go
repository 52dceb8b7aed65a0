package cmd

import (
	"errors"
	"io"
	"log/slog"

	httpin "campusmarket/internal/adapters/in/http"
	"campusmarket/internal/adapters/out/kafka"
	"campusmarket/internal/adapters/out/logsink"
	"campusmarket/internal/adapters/out/otp"
	"campusmarket/internal/adapters/out/postgres"
	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/application/usecases/queries"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	notifier ports.Notifier
	refunds  ports.RefundExecutor
	closers  []io.Closer

	pricing     services.PricingEngine
	ledger      services.EscrowLedger
	coordinator services.CancellationCoordinator
}

// NewCompositionRoot wires the adapters. Notifications and refund requests
// go to Kafka when KAFKA_HOST names brokers and to the log otherwise.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		configs:     configs,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:      logger,
		pricing:     services.NewPricingEngine(),
		ledger:      services.NewEscrowLedger(),
		coordinator: services.NewCancellationCoordinator(),
	}

	if brokers := kafka.ParseBrokers(configs.KafkaHost); len(brokers) > 0 {
		notifier := kafka.NewNotifier(kafka.NewWriter(brokers, configs.KafkaOrderChangedTopic))
		refunds := kafka.NewRefundExecutor(kafka.NewWriter(brokers, configs.KafkaRefundRequestedTopic))
		c.notifier, c.refunds = notifier, refunds
		c.closers = append(c.closers, notifier, refunds)
		logger.Info("Publishing to Kafka", "brokers", brokers)
	} else {
		c.notifier = logsink.NewNotifier(logger)
		c.refunds = logsink.NewRefundExecutor(logger)
	}

	return c
}

// Close releases the Kafka writers.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	for _, closer := range c.closers {
		closeErrs = append(closeErrs, closer.Close())
	}
	return errors.Join(closeErrs...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) handlerLogger(name string) *slog.Logger {
	return c.logger.With("component", name)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), otp.NewGenerator(), c.pricing, c.configs.RetryPolicy())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.uow(), c.coordinator, c.notifier, c.configs.RetryPolicy(), c.handlerLogger("change_order_status"),
	)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler(
	statuses *commands.ChangeOrderStatusCommandHandler,
) commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(statuses)
}

func (c *CompositionRoot) CreateValidateOTPCommandHandler() commands.ValidateOTPCommandHandler {
	return commands.NewValidateOTPCommandHandler(
		c.uow(), c.ledger, c.notifier, c.configs.RetryPolicy(), c.handlerLogger("validate_otp"),
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.uow(), c.coordinator, c.notifier, c.configs.RetryPolicy(), c.handlerLogger("cancel_order"),
	)
}

func (c *CompositionRoot) CreateAdminChangeStatusCommandHandler() commands.AdminChangeStatusCommandHandler {
	return commands.NewAdminChangeStatusCommandHandler(
		c.uow(), c.ledger, c.notifier, c.configs.RetryPolicy(), c.handlerLogger("admin_change_status"),
	)
}

func (c *CompositionRoot) CreateAdminRefundCommandHandler() commands.AdminRefundCommandHandler {
	return commands.NewAdminRefundCommandHandler(
		c.uow(), c.coordinator, c.notifier, c.configs.RetryPolicy(), c.handlerLogger("admin_refund"),
	)
}

func (c *CompositionRoot) CreateDispatchRefundsCommandHandler() commands.DispatchRefundsCommandHandler {
	return commands.NewDispatchRefundsCommandHandler(
		c.orderUoW(), c.refunds, c.configs.RetryPolicy(), c.handlerLogger("dispatch_refunds"),
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateQuoteDeliveryQueryHandler() queries.QuoteDeliveryQueryHandler {
	return queries.NewQuoteDeliveryQueryHandler(c.pricing)
}

// HTTPHandlers builds every use case served over HTTP.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	createOrder := c.CreateCreateOrderCommandHandler()
	statuses := c.CreateChangeOrderStatusCommandHandler()
	confirmPayment := c.CreateConfirmPaymentCommandHandler(&statuses)
	validateOTP := c.CreateValidateOTPCommandHandler()
	cancelOrder := c.CreateCancelOrderCommandHandler()
	adminStatus := c.CreateAdminChangeStatusCommandHandler()
	adminRefund := c.CreateAdminRefundCommandHandler()

	return httpin.Handlers{
		CreateOrder:       &createOrder,
		ConfirmPayment:    &confirmPayment,
		ChangeStatus:      &statuses,
		ValidateOTP:       &validateOTP,
		CancelOrder:       &cancelOrder,
		AdminChangeStatus: &adminStatus,
		AdminRefund:       &adminRefund,
		GetOrder:          c.CreateGetOrderQueryHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		QuoteDelivery:     c.CreateQuoteDeliveryQueryHandler(),
	}
}

// JobManager builds the scheduled jobs.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	dispatch := c.CreateDispatchRefundsCommandHandler()
	refunds := jobs.NewRefundDispatchJob(&dispatch, c.configs.RefundDispatchSchedule, c.configs.RefundDispatchBatch, c.logger)
	return jobs.NewJobManager(refunds)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
