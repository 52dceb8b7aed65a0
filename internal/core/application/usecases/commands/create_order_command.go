package commands

import (
	"errors"
	"strings"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CartLine is one product line of the buyer's cart.
type CartLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a buyer placing an order for the contents of
// their cart, delivered to one campus.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, buyer, kernel.CampusHaramaya, "am", []CartLine{
//	    {ProductID: coffeeID, Quantity: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid cart: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyer   kernel.Actor
	campus  kernel.Campus
	locale  string
	lines   []CartLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the cart and merges lines naming the same
// product. The order of first appearance is kept, so item line numbers are
// stable for a given cart.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyer kernel.Actor,
	campus kernel.Campus,
	locale string,
	lines []CartLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyer(buyer),
		cmd.setCampus(campus),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.setLocale(locale)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Buyer() kernel.Actor {
	return c.buyer
}

func (c CreateOrderCommand) Campus() kernel.Campus {
	return c.campus
}

func (c CreateOrderCommand) Locale() string {
	return c.locale
}

// Lines returns the merged cart lines.
func (c CreateOrderCommand) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// ProductIDs returns the distinct products of the cart.
func (c CreateOrderCommand) ProductIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.lines))
	for _, line := range c.lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyer(buyer kernel.Actor) error {
	if err := buyer.Validate(); err != nil {
		return err
	}

	c.buyer = buyer
	return nil
}

func (c *CreateOrderCommand) setCampus(campus kernel.Campus) error {
	if err := campus.Validate(); err != nil {
		return err
	}

	c.campus = campus
	return nil
}

func (c *CreateOrderCommand) setLocale(locale string) {
	c.locale = strings.TrimSpace(locale)
	if c.locale == "" {
		c.locale = order.DefaultLocale
	}
}

func (c *CreateOrderCommand) setLines(lines []CartLine) error {
	if len(lines) == 0 {
		return errs.ErrEmptyCart
	}

	merged := make([]CartLine, 0, len(lines))
	index := make(map[kernel.UUID]int, len(lines))
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError("quantity", line.Quantity, 1, "unbounded")
		}

		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	c.lines = merged
	return nil
}
