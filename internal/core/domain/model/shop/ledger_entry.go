package shop

import (
	"errors"
	"fmt"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"
)

// EntryType classifies a ledger movement. Only credits exist today.
type EntryType string

const EntryTypeCredit EntryType = "CREDIT"

// LedgerEntry is an immutable record of one balance credit. For a shop,
// balanceAfter of entry n equals balanceBefore of entry n+1.
type LedgerEntry struct {
	id            kernel.UUID
	shopID        kernel.UUID
	orderID       kernel.UUID
	lineNo        int
	amount        kernel.Money
	entryType     EntryType
	balanceBefore kernel.Money
	balanceAfter  kernel.Money
	createdAt     time.Time
}

// NewCreditEntry validates a credit: balanceAfter must equal
// balanceBefore + amount.
func NewCreditEntry(
	id, shopID, orderID kernel.UUID,
	lineNo int,
	amount, balanceBefore, balanceAfter kernel.Money,
	createdAt time.Time,
) (LedgerEntry, error) {
	var lineErr, sumErr error
	if lineNo <= 0 {
		lineErr = errs.NewValueIsOutOfRangeError("lineNo", lineNo, 1, "unbounded")
	}
	if !balanceBefore.Add(amount).IsEqual(balanceAfter) {
		sumErr = errs.NewValueIsInvalidErrorWithCause(
			"balanceAfter",
			fmt.Errorf("%s + %s != %s", balanceBefore, amount, balanceAfter),
		)
	}
	if err := errors.Join(id.Validate(), shopID.Validate(), orderID.Validate(), lineErr, sumErr); err != nil {
		return LedgerEntry{}, err
	}

	return LedgerEntry{
		id:            id,
		shopID:        shopID,
		orderID:       orderID,
		lineNo:        lineNo,
		amount:        amount,
		entryType:     EntryTypeCredit,
		balanceBefore: balanceBefore,
		balanceAfter:  balanceAfter,
		createdAt:     createdAt.UTC(),
	}, nil
}

func (e LedgerEntry) ID() kernel.UUID {
	return e.id
}

func (e LedgerEntry) ShopID() kernel.UUID {
	return e.shopID
}

func (e LedgerEntry) OrderID() kernel.UUID {
	return e.orderID
}

// LineNo is the order line the credit pays out. (orderID, lineNo) is unique.
func (e LedgerEntry) LineNo() int {
	return e.lineNo
}

func (e LedgerEntry) Amount() kernel.Money {
	return e.amount
}

func (e LedgerEntry) Type() EntryType {
	return e.entryType
}

func (e LedgerEntry) BalanceBefore() kernel.Money {
	return e.balanceBefore
}

func (e LedgerEntry) BalanceAfter() kernel.Money {
	return e.balanceAfter
}

func (e LedgerEntry) CreatedAt() time.Time {
	return e.createdAt
}
