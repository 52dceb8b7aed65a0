package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "campusmarket/internal/adapters/out/postgres"
	"campusmarket/internal/adapters/out/postgres/orderrepo"
	"campusmarket/internal/adapters/out/postgres/shoprepo"
	"campusmarket/internal/core/application/usecases/queries"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {
	// No-op for query tests
}

type OrderQueriesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
	shopRepo  *shoprepo.GormShopRepository
	get       queries.GetOrderQueryHandler
	list      queries.ListOrdersQueryHandler

	harar    *shop.Shop
	direDawa *shop.Shop
	buyer    kernel.Actor
	gateway  kernel.Actor
}

func (suite *OrderQueriesTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(postgres_adapter.Models()...))

	suite.get = queries.NewGetOrderQueryHandler(db)
	suite.list = queries.NewListOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.shopRepo = shoprepo.NewGormShopRepository(db, &mockAggregateTracker{})
	suite.gateway = kernel.MustActor(kernel.NewUUID(), kernel.RolePaymentGateway, nil)
}

func (suite *OrderQueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *OrderQueriesTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_status_history, shops CASCADE").Error
	suite.Require().NoError(err)

	ctx := context.Background()
	suite.harar, err = shop.NewShop(kernel.NewUUID(), kernel.NewUUID(), "Harar Roastery", kernel.CityHarar)
	suite.Require().NoError(err)
	suite.direDawa, err = shop.NewShop(kernel.NewUUID(), kernel.NewUUID(), "Dire Dawa Honey", kernel.CityDireDawa)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.shopRepo.Add(ctx, suite.harar))
	suite.Require().NoError(suite.shopRepo.Add(ctx, suite.direDawa))

	suite.buyer = kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil)
}

func (suite *OrderQueriesTestSuite) TestGetOrder_BuyerSeesFullViewWithOTP() {
	created := time.Now().UTC().Truncate(time.Microsecond)
	o := suite.addOrder(suite.buyer, created, suite.harar, suite.direDawa)

	view, err := suite.getAs(o.ID(), suite.buyer)
	suite.Require().NoError(err)

	suite.Equal(o.ID(), view.ID)
	suite.Equal(suite.buyer.ID(), view.BuyerID)
	suite.Equal(kernel.CampusHaramaya, view.Campus)
	suite.Equal(order.StatusPending, view.Status)
	suite.True(kernel.MustMoney("390").IsEqual(view.TotalAmount), view.TotalAmount.String())
	suite.True(kernel.MustMoney("200").IsEqual(view.DeliveryFee))
	suite.Equal("60-120 min", view.ETA.String())
	suite.Require().NotNil(view.OTPCode)
	suite.Equal("123456", *view.OTPCode)
	suite.False(view.Locked)
	suite.False(view.RefundInitiated)
	suite.Nil(view.RefundAmount)
	suite.Equal(created, view.CreatedAt)

	suite.Require().Len(view.Items, 2)
	suite.Equal(suite.harar.ID(), view.Items[0].ShopID)
	suite.Equal(kernel.CityDireDawa, view.Items[1].OriginCity)

	suite.Require().Len(view.History, 1)
	suite.Equal(order.StatusPending, view.History[0].To)
	suite.Equal(kernel.RoleBuyer, view.History[0].ActorRole)
}

func (suite *OrderQueriesTestSuite) TestGetOrder_AccessRules() {
	o := suite.addOrder(suite.buyer, time.Now(), suite.harar)

	hararID := suite.harar.ID()
	direDawaID := suite.direDawa.ID()
	impostorShop := suite.harar.ID()

	tests := []struct {
		name     string
		viewer   kernel.Actor
		wantCode errs.Code
		wantOTP  bool
	}{
		{name: "owner of the buyer account", viewer: suite.buyer, wantOTP: true},
		{name: "another buyer", viewer: kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil),
			wantCode: errs.CodeUnauthorized},
		{name: "owner of a shop in the order", viewer: kernel.MustActor(suite.harar.OwnerID(), kernel.RoleShopOwner, &hararID)},
		{name: "owner of an unrelated shop", viewer: kernel.MustActor(suite.direDawa.OwnerID(), kernel.RoleShopOwner, &direDawaID),
			wantCode: errs.CodeUnauthorized},
		{name: "claims a shop it does not own", viewer: kernel.MustActor(kernel.NewUUID(), kernel.RoleShopOwner, &impostorShop),
			wantCode: errs.CodeUnauthorized},
		{name: "runner", viewer: kernel.MustActor(kernel.NewUUID(), kernel.RoleRunner, nil)},
		{name: "admin", viewer: kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil)},
		{name: "payment gateway", viewer: suite.gateway, wantCode: errs.CodeUnauthorized},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			view, err := suite.getAs(o.ID(), tt.viewer)
			if tt.wantCode != "" {
				suite.Equal(tt.wantCode, errs.CodeOf(err))
				return
			}

			suite.Require().NoError(err)
			suite.Equal(o.ID(), view.ID)
			suite.Equal(tt.wantOTP, view.OTPCode != nil)
		})
	}
}

func (suite *OrderQueriesTestSuite) TestGetOrder_NotFound() {
	_, err := suite.getAs(kernel.NewUUID(), suite.buyer)

	suite.Equal(errs.CodeOrderNotFound, errs.CodeOf(err))
}

func (suite *OrderQueriesTestSuite) TestGetOrder_CancelledOrderShowsRefundAndHidesOTP() {
	ctx := context.Background()
	o := suite.addOrder(suite.buyer, time.Now(), suite.harar)
	suite.Require().NoError(o.Advance(order.StatusPaidEscrow, suite.gateway, time.Now()))
	suite.Require().NoError(o.Cancel(suite.buyer, "ordered twice", time.Now()))
	suite.Require().NoError(suite.orderRepo.Update(ctx, o))

	view, err := suite.getAs(o.ID(), suite.buyer)
	suite.Require().NoError(err)

	suite.Equal(order.StatusCancelled, view.Status)
	suite.Nil(view.OTPCode)
	suite.True(view.RefundInitiated)
	suite.Require().NotNil(view.RefundAmount)
	suite.True(kernel.MustMoney("400").IsEqual(*view.RefundAmount), view.RefundAmount.String())
	suite.Require().NotNil(view.CancellationReason)
	suite.Equal("ordered twice", *view.CancellationReason)
	suite.Len(view.History, 3)
}

func (suite *OrderQueriesTestSuite) TestListBuyerOrders_NewestFirstAndPaged() {
	base := time.Now().UTC().Add(-time.Hour)
	oldest := suite.addOrder(suite.buyer, base, suite.harar)
	middle := suite.addOrder(suite.buyer, base.Add(time.Minute), suite.direDawa)
	newest := suite.addOrder(suite.buyer, base.Add(2*time.Minute), suite.harar, suite.direDawa)
	suite.addOrder(kernel.MustActor(kernel.NewUUID(), kernel.RoleBuyer, nil), base, suite.harar)

	query, err := queries.NewListBuyerOrdersQuery(suite.buyer, queries.Page{})
	suite.Require().NoError(err)
	orders, err := suite.list.HandleBuyer(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(orders, 3)
	suite.Equal(newest.ID(), orders[0].ID)
	suite.Equal(middle.ID(), orders[1].ID)
	suite.Equal(oldest.ID(), orders[2].ID)
	suite.Equal(3, orders[0].ItemCount)
	suite.True(orders[0].Subtotal.IsEqual(orders[0].TotalAmount))

	query, err = queries.NewListBuyerOrdersQuery(suite.buyer, queries.Page{Limit: 1, Offset: 1})
	suite.Require().NoError(err)
	orders, err = suite.list.HandleBuyer(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(middle.ID(), orders[0].ID)
}

func (suite *OrderQueriesTestSuite) TestListBuyerOrders_NonBuyerIsUnauthorized() {
	runner := kernel.MustActor(kernel.NewUUID(), kernel.RoleRunner, nil)
	query, err := queries.NewListBuyerOrdersQuery(runner, queries.Page{})
	suite.Require().NoError(err)

	_, err = suite.list.HandleBuyer(context.Background(), query)

	suite.Equal(errs.CodeUnauthorized, errs.CodeOf(err))
}

func (suite *OrderQueriesTestSuite) TestListShopOrders_OwnerSeesShopSubtotals() {
	base := time.Now().UTC().Add(-time.Hour)
	mixed := suite.addOrder(suite.buyer, base.Add(time.Minute), suite.harar, suite.direDawa)
	hararOnly := suite.addOrder(suite.buyer, base, suite.harar)
	suite.addOrder(suite.buyer, base.Add(2*time.Minute), suite.direDawa)

	hararID := suite.harar.ID()
	owner := kernel.MustActor(suite.harar.OwnerID(), kernel.RoleShopOwner, &hararID)
	query, err := queries.NewListShopOrdersQuery(hararID, owner, queries.Page{})
	suite.Require().NoError(err)

	orders, err := suite.list.HandleShop(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(orders, 2)
	suite.Equal(mixed.ID(), orders[0].ID)
	suite.Equal(hararOnly.ID(), orders[1].ID)
	suite.True(kernel.MustMoney("300").IsEqual(orders[0].Subtotal), orders[0].Subtotal.String())
	suite.True(kernel.MustMoney("390").IsEqual(orders[0].TotalAmount))
	suite.Equal(2, orders[0].ItemCount)
}

func (suite *OrderQueriesTestSuite) TestListShopOrders_AccessRules() {
	suite.addOrder(suite.buyer, time.Now(), suite.harar)

	hararID := suite.harar.ID()
	direDawaID := suite.direDawa.ID()

	tests := []struct {
		name     string
		shopID   kernel.UUID
		viewer   kernel.Actor
		wantCode errs.Code
		wantLen  int
	}{
		{name: "admin", shopID: hararID, viewer: kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil), wantLen: 1},
		{name: "owner of another shop", shopID: hararID,
			viewer:   kernel.MustActor(suite.direDawa.OwnerID(), kernel.RoleShopOwner, &direDawaID),
			wantCode: errs.CodeUnauthorized},
		{name: "claims the shop without owning it", shopID: hararID,
			viewer:   kernel.MustActor(kernel.NewUUID(), kernel.RoleShopOwner, &hararID),
			wantCode: errs.CodeUnauthorized},
		{name: "buyer", shopID: hararID, viewer: suite.buyer, wantCode: errs.CodeUnauthorized},
		{name: "unknown shop", shopID: kernel.NewUUID(),
			viewer:   kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil),
			wantCode: errs.CodeShopNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			query, err := queries.NewListShopOrdersQuery(tt.shopID, tt.viewer, queries.Page{})
			suite.Require().NoError(err)

			orders, err := suite.list.HandleShop(context.Background(), query)
			if tt.wantCode != "" {
				suite.Equal(tt.wantCode, errs.CodeOf(err))
				return
			}
			suite.Require().NoError(err)
			suite.Len(orders, tt.wantLen)
		})
	}
}

func (suite *OrderQueriesTestSuite) getAs(orderID kernel.UUID, viewer kernel.Actor) (queries.OrderView, error) {
	query, err := queries.NewGetOrderQuery(orderID, viewer)
	suite.Require().NoError(err)
	return suite.get.Handle(context.Background(), query)
}

// addOrder stores a PENDING order to Haramaya with one line per shop: two
// coffees at 150 from a Harar shop, one honey at 90 from a Dire Dawa shop.
func (suite *OrderQueriesTestSuite) addOrder(buyer kernel.Actor, createdAt time.Time, shops ...*shop.Shop) *order.Order {
	items := make([]order.Item, 0, len(shops))
	fee := kernel.ZeroMoney()
	for i, s := range shops {
		name, qty, price := "Honey", 1, "90"
		if s.City() == kernel.CityHarar {
			name, qty, price = "Coffee beans", 2, "150"
		}
		item, err := order.NewItem(i+1, kernel.NewUUID(), s.ID(), name, qty, kernel.MustMoney(price), s.City())
		suite.Require().NoError(err)
		items = append(items, item)
		fee = fee.Add(kernel.MustMoney("100"))
	}

	eta, err := kernel.NewETA(60*time.Minute, 120*time.Minute)
	suite.Require().NoError(err)
	otp, err := order.ParseOTPCode("123456")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), buyer, kernel.CampusHaramaya, "en", items, fee, eta, otp,
		createdAt.UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func TestOrderQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesTestSuite))
}
