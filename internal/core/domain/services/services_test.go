package services_test

import (
	"testing"
	"time"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

type line struct {
	shopID    kernel.UUID
	productID kernel.UUID
	city      kernel.City
	quantity  int
	price     string
}

func buildOrder(t *testing.T, buyer kernel.Actor, campus kernel.Campus, lines ...line) *order.Order {
	t.Helper()
	items := make([]order.Item, 0, len(lines))
	for i, l := range lines {
		item, err := order.NewItem(i+1, l.productID, l.shopID, "item", l.quantity, kernel.MustMoney(l.price), l.city)
		require.NoError(t, err)
		items = append(items, item)
	}
	otp, err := order.ParseOTPCode("123456")
	require.NoError(t, err)
	eta, err := kernel.NewETA(30*time.Minute, 60*time.Minute)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), buyer, campus, "en", items, kernel.MustMoney("40"), eta, otp, testNow)
	require.NoError(t, err)
	return o
}

func advance(t *testing.T, o *order.Order, to order.Status, role kernel.Role, shopID *kernel.UUID) {
	t.Helper()
	require.NoError(t, o.Advance(to, kernel.MustActor(kernel.NewUUID(), role, shopID), testNow))
}
