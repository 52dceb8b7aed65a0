package order

import (
	"errors"
	"fmt"
	"strings"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

// Item is one purchased line, frozen at creation time. priceAtPurchase and
// originCity are snapshots of the catalog and never follow later changes.
type Item struct {
	lineNo          int
	productID       kernel.UUID
	shopID          kernel.UUID
	productName     string
	quantity        int
	priceAtPurchase kernel.Money
	originCity      kernel.City
}

// NewItem validates a line. lineNo is 1-based and unique within an order;
// ledger entries are keyed by it.
func NewItem(
	lineNo int,
	productID, shopID kernel.UUID,
	productName string,
	quantity int,
	priceAtPurchase kernel.Money,
	originCity kernel.City,
) (Item, error) {
	var nameErr, lineErr, qtyErr error
	if strings.TrimSpace(productName) == "" {
		nameErr = errs.NewValueIsRequiredError("productName")
	}
	if lineNo <= 0 {
		lineErr = errs.NewValueIsOutOfRangeError("lineNo", lineNo, 1, "unbounded")
	}
	if quantity <= 0 {
		qtyErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(
		lineErr,
		productID.Validate(),
		shopID.Validate(),
		nameErr,
		qtyErr,
		originCity.Validate(),
	); err != nil {
		return Item{}, err
	}

	return Item{
		lineNo:          lineNo,
		productID:       productID,
		shopID:          shopID,
		productName:     productName,
		quantity:        quantity,
		priceAtPurchase: priceAtPurchase,
		originCity:      originCity,
	}, nil
}

func (i Item) LineNo() int {
	return i.lineNo
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) ShopID() kernel.UUID {
	return i.shopID
}

func (i Item) ProductName() string {
	return i.productName
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) PriceAtPurchase() kernel.Money {
	return i.priceAtPurchase
}

func (i Item) OriginCity() kernel.City {
	return i.originCity
}

// Total is priceAtPurchase × quantity, the amount credited to the shop on release.
func (i Item) Total() kernel.Money {
	total, _ := i.priceAtPurchase.Mul(i.quantity)
	return total
}
