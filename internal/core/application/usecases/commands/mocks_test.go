package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/domain/model/audit"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/product"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/core/ports"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListAwaitingRefundDispatch(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockShopRepository struct{ mock.Mock }

func (m *MockShopRepository) Add(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShopRepository) Get(ctx context.Context, id kernel.UUID) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shop.Shop)
	return s, args.Error(1)
}

func (m *MockShopRepository) GetForUpdateSorted(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*shop.Shop, error) {
	args := m.Called(ctx, ids)
	shops, _ := args.Get(0).(map[kernel.UUID]*shop.Shop)
	return shops, args.Error(1)
}

func (m *MockShopRepository) UpdateBalance(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShopRepository) AppendLedgerEntries(ctx context.Context, entries []shop.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockShopRepository) ListLedger(ctx context.Context, shopID kernel.UUID) ([]shop.LedgerEntry, error) {
	args := m.Called(ctx, shopID)
	entries, _ := args.Get(0).([]shop.LedgerEntry)
	return entries, args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) GetForUpdateSorted(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]*product.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[kernel.UUID]*product.Product)
	return products, args.Error(1)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Append(ctx context.Context, entry audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]audit.Entry)
	return entries, args.Error(1)
}

type MockUoW struct {
	mock.Mock

	orders   *MockOrderRepository
	shops    *MockShopRepository
	products *MockProductRepository
	audits   *MockAuditRepository
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.orders
}

func (m *MockUoW) ShopRepository() ports.ShopRepository {
	return m.shops
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	return m.products
}

func (m *MockUoW) AuditRepository() ports.AuditRepository {
	return m.audits
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct {
	mock.Mock

	orders *MockOrderRepository
}

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.orders
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockRefundExecutor struct{ mock.Mock }

func (m *MockRefundExecutor) RequestRefund(ctx context.Context, r ports.RefundRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockOTPGenerator struct{ mock.Mock }

func (m *MockOTPGenerator) Generate() (order.OTPCode, error) {
	args := m.Called()
	return args.Get(0).(order.OTPCode), args.Error(1)
}

// uowFixture wires one MockUoW with fresh repository mocks.
type uowFixture struct {
	uow      *MockUoW
	factory  *MockUoWFactory
	orders   *MockOrderRepository
	shops    *MockShopRepository
	products *MockProductRepository
	audits   *MockAuditRepository
}

func newUoWFixture() *uowFixture {
	f := &uowFixture{
		factory:  new(MockUoWFactory),
		orders:   new(MockOrderRepository),
		shops:    new(MockShopRepository),
		products: new(MockProductRepository),
		audits:   new(MockAuditRepository),
	}
	f.uow = &MockUoW{orders: f.orders, shops: f.shops, products: f.products, audits: f.audits}
	f.factory.On("Create").Return(f.uow)
	return f
}

// expectCommit expects one transaction that commits.
func (f *uowFixture) expectCommit() {
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
}

// expectRollback expects one transaction that is abandoned.
func (f *uowFixture) expectRollback() {
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
}

func (f *uowFixture) assert(t *testing.T) {
	t.Helper()
	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.shops.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.audits.AssertExpectations(t)
}

func testPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Retryable: func(err error) bool {
			return errors.Is(err, errs.ErrVersionIsInvalid)
		},
	}
}

const testOTP = "123456"

// orderFixture is a one-shop, one-product order: 2 x 150 from Harar to
// Haramaya main campus, fee 100.
type orderFixture struct {
	buyer   kernel.Actor
	owner   kernel.Actor
	runner  kernel.Actor
	admin   kernel.Actor
	gateway kernel.Actor
	shop    *shop.Shop
	product *product.Product
	order   *order.Order
}

func newOrderFixture(t *testing.T, status order.Status) orderFixture {
	t.Helper()

	ownerID := kernel.NewUUID()
	s, err := shop.NewShop(kernel.NewUUID(), ownerID, "Harar Coffee House", kernel.CityHarar)
	require.NoError(t, err)
	shopID := s.ID()

	p, err := product.NewProduct(kernel.NewUUID(), s.ID(), "Harar beans 1kg", kernel.MustMoney("150"), 3)
	require.NoError(t, err)

	f := orderFixture{
		buyer:   kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil),
		owner:   kernel.MustActor(ownerID, kernel.RoleShopOwner, &shopID),
		runner:  kernel.MustActor(kernel.NewUUID(), kernel.RoleRunner, nil),
		admin:   kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil),
		gateway: kernel.MustActor(kernel.NewUUID(), kernel.RolePaymentGateway, nil),
		shop:    s,
		product: p,
	}

	item, err := order.NewItem(1, p.ID(), s.ID(), p.Name(), 2, p.Price(), s.City())
	require.NoError(t, err)
	otp, err := order.ParseOTPCode(testOTP)
	require.NoError(t, err)
	eta, err := kernel.NewETA(60*time.Minute, 120*time.Minute)
	require.NoError(t, err)

	started := time.Now().Add(-time.Hour)
	f.order, err = order.NewOrder(
		kernel.NewUUID(), f.buyer, kernel.CampusHaramaya, "am",
		[]order.Item{item}, kernel.MustMoney("100"), eta, otp, started,
	)
	require.NoError(t, err)

	steps := []struct {
		to    order.Status
		actor kernel.Actor
	}{
		{order.StatusPaidEscrow, f.gateway},
		{order.StatusDispatched, f.owner},
		{order.StatusArrived, f.runner},
	}
	for _, step := range steps {
		if f.order.Status() == status {
			return f
		}
		require.NoError(t, f.order.Advance(step.to, step.actor, started))
	}
	if status == order.StatusCompleted {
		_, err = f.order.VerifyOTP(otp, f.runner, started)
		require.NoError(t, err)
	}
	require.Equal(t, status, f.order.Status())
	return f
}

func (f orderFixture) products() map[kernel.UUID]*product.Product {
	return map[kernel.UUID]*product.Product{f.product.ID(): f.product}
}

func (f orderFixture) shops() map[kernel.UUID]*shop.Shop {
	return map[kernel.UUID]*shop.Shop{f.shop.ID(): f.shop}
}
