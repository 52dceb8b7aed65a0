// Package product holds the catalog facts the order engine depends on: the
// current price, the selling shop and the reservable stock.
package product

import (
	"errors"
	"fmt"
	"strings"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is the stock record of a catalog item. Catalog CRUD happens
// elsewhere; this aggregate only reserves and restores stock.
type Product struct {
	id     kernel.UUID
	shopID kernel.UUID
	name   string
	price  kernel.Money
	stock  int

	isConstructed bool
}

func NewProduct(id, shopID kernel.UUID, name string, price kernel.Money, stock int) (*Product, error) {
	var nameErr, stockErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if stock < 0 {
		stockErr = errs.NewValueIsOutOfRangeError("stock", stock, 0, "unbounded")
	}
	if err := errors.Join(id.Validate(), shopID.Validate(), nameErr, stockErr); err != nil {
		return nil, err
	}

	return &Product{
		id:            id,
		shopID:        shopID,
		name:          name,
		price:         price,
		stock:         stock,
		isConstructed: true,
	}, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) ShopID() kernel.UUID {
	return p.shopID
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() kernel.Money {
	return p.price
}

func (p *Product) Stock() int {
	return p.stock
}

// Reserve takes quantity units out of stock for an order.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if quantity > p.stock {
		return errs.NewBusinessError(
			errs.CodeInsufficientStock,
			fmt.Sprintf("%s: %d requested, %d in stock", p.name, quantity, p.stock),
		)
	}
	p.stock -= quantity
	return nil
}

// Restore puts back quantity units reserved by a cancelled order.
func (p *Product) Restore(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	p.stock += quantity
	return nil
}
