package commands

import (
	"context"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/retry"
)

// CreateOrderCommandHandler reserves stock, snapshots prices and persists a
// PENDING order with its delivery quote and confirmation code.
type CreateOrderCommandHandler struct {
	tx      txRunner[UoW]
	otp     ports.OTPGenerator
	pricing services.PricingEngine
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	otp ports.OTPGenerator,
	pricing services.PricingEngine,
	policy retry.Policy,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		tx:      newTxRunner(uowFactory, policy),
		otp:     otp,
		pricing: pricing,
	}
}

// Handle places the order. Products are locked in ascending id order before
// their stock is checked, so two carts competing for the last unit cannot
// both succeed.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Buyer().Is(kernel.RoleBuyer) {
		return errs.NewBusinessError(errs.CodeUnauthorizedAction, "only buyers place orders")
	}

	code, err := h.otp.Generate()
	if err != nil {
		return err
	}

	return h.tx.run(ctx, func(ctx context.Context, uow UoW) error {
		productRepo := uow.ProductRepository()
		products, err := productRepo.GetForUpdateSorted(ctx, cmd.ProductIDs())
		if err != nil {
			return err
		}

		shops := make(map[kernel.UUID]*shop.Shop)
		items := make([]order.Item, 0, len(products))
		for i, line := range cmd.Lines() {
			p, ok := products[line.ProductID]
			if !ok {
				return errs.NewObjectNotFoundError("product", line.ProductID.String())
			}

			s, ok := shops[p.ShopID()]
			if !ok {
				if s, err = uow.ShopRepository().Get(ctx, p.ShopID()); err != nil {
					return err
				}
				shops[p.ShopID()] = s
			}

			if err = p.Reserve(line.Quantity); err != nil {
				return err
			}

			item, err := order.NewItem(i+1, p.ID(), s.ID(), p.Name(), line.Quantity, p.Price(), s.City())
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		quote, err := h.pricing.QuoteItems(items, cmd.Campus())
		if err != nil {
			return err
		}

		o, err := order.NewOrder(
			cmd.OrderID(), cmd.Buyer(), cmd.Campus(), cmd.Locale(),
			items, quote.Fee, quote.ETA, code, now(),
		)
		if err != nil {
			return err
		}

		for _, id := range cmd.ProductIDs() {
			if err = productRepo.UpdateStock(ctx, products[id]); err != nil {
				return err
			}
		}

		return uow.OrderRepository().Add(ctx, o)
	})
}
