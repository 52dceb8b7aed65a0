package services_test

import (
	"testing"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/product"
	"campusmarket/internal/core/domain/services"
	"campusmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockedProduct(t *testing.T, shopID kernel.UUID, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), shopID, "Notebook", kernel.MustMoney("25"), stock)
	require.NoError(t, err)
	return p
}

func TestCancellationCoordinator_Cancel(t *testing.T) {
	buyer := kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil)
	shopID := kernel.NewUUID()

	t.Run("paid order restores stock and initiates refund", func(t *testing.T) {
		p := newStockedProduct(t, shopID, 7)
		o := buildOrder(t, buyer, kernel.CampusHarar,
			line{shopID: shopID, productID: p.ID(), city: kernel.CityHarar, quantity: 3, price: "25"})
		advance(t, o, order.StatusPaidEscrow, kernel.RolePaymentGateway, nil)

		err := services.NewCancellationCoordinator().Cancel(o, buyer, "wrong size", map[kernel.UUID]*product.Product{p.ID(): p}, testNow)

		require.NoError(t, err)
		assert.Equal(t, 10, p.Stock())
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.True(t, o.Refund().Initiated())
		assert.Equal(t, "115.00", o.Refund().Amount().String())
	})

	t.Run("rejected cancellation does not touch stock", func(t *testing.T) {
		p := newStockedProduct(t, shopID, 7)
		o := buildOrder(t, buyer, kernel.CampusHarar,
			line{shopID: shopID, productID: p.ID(), city: kernel.CityHarar, quantity: 3, price: "25"})
		stranger := kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil)

		err := services.NewCancellationCoordinator().Cancel(o, stranger, "", map[kernel.UUID]*product.Product{p.ID(): p}, testNow)

		require.ErrorIs(t, err, errs.ErrUnauthorizedAction)
		assert.Equal(t, 7, p.Stock())
		assert.Equal(t, order.StatusPending, o.Status())
	})

	t.Run("missing product aborts before any restore", func(t *testing.T) {
		p := newStockedProduct(t, shopID, 1)
		o := buildOrder(t, buyer, kernel.CampusHarar,
			line{shopID: shopID, productID: p.ID(), city: kernel.CityHarar, quantity: 1, price: "25"},
			line{shopID: shopID, productID: kernel.NewUUID(), city: kernel.CityHarar, quantity: 1, price: "25"})

		err := services.NewCancellationCoordinator().Cancel(o, buyer, "", map[kernel.UUID]*product.Product{p.ID(): p}, testNow)

		assert.Equal(t, errs.CodeProductNotFound, errs.CodeOf(err))
		assert.Equal(t, 1, p.Stock())
		assert.Equal(t, order.StatusPending, o.Status())
	})
}

func TestCancellationCoordinator_Refund(t *testing.T) {
	buyer := kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil)
	admin := kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil)
	shopID := kernel.NewUUID()

	p := newStockedProduct(t, shopID, 0)
	o := buildOrder(t, buyer, kernel.CampusHarar,
		line{shopID: shopID, productID: p.ID(), city: kernel.CityHarar, quantity: 2, price: "25"})
	advance(t, o, order.StatusPaidEscrow, kernel.RolePaymentGateway, nil)
	advance(t, o, order.StatusDispatched, kernel.RoleShopOwner, &shopID)
	products := map[kernel.UUID]*product.Product{p.ID(): p}
	coordinator := services.NewCancellationCoordinator()

	require.NoError(t, coordinator.Refund(o, admin, "parcel damaged", products, testNow))
	assert.Equal(t, 2, p.Stock())
	assert.True(t, o.Refund().Initiated())

	err := coordinator.Refund(o, admin, "again", products, testNow)

	require.ErrorIs(t, err, errs.ErrCannotCancel)
	assert.Equal(t, 2, p.Stock())
}
