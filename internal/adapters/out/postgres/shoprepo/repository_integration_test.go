package shoprepo_test

import (
	"context"
	"testing"
	"time"

	"campusmarket/internal/adapters/out/postgres/shoprepo"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/shop"
	"campusmarket/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type ShopRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *shoprepo.GormShopRepository
	tracker    *MockAggregateTracker
}

func (suite *ShopRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&shoprepo.ShopDTO{}, &shoprepo.LedgerEntryDTO{}))
}

func (suite *ShopRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shops, shop_ledger_entries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = shoprepo.NewGormShopRepository(suite.db, suite.tracker)
}

func (suite *ShopRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ShopRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	s := suite.addShop(ctx, "Harar Roastery", kernel.CityHarar)

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)

	suite.Equal(s.ID(), loaded.ID())
	suite.Equal(s.OwnerID(), loaded.OwnerID())
	suite.Equal("Harar Roastery", loaded.Name())
	suite.Equal(kernel.CityHarar, loaded.City())
	suite.True(loaded.Balance().IsZero())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", s.ID(), s)
}

func (suite *ShopRepositoryIntegrationTestSuite) TestGet_NonExistentShop_ReturnsShopNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.Equal(errs.CodeShopNotFound, errs.CodeOf(err))
}

func (suite *ShopRepositoryIntegrationTestSuite) TestGetForUpdateSorted_ReturnsEveryRequestedShop() {
	ctx := context.Background()
	a := suite.addShop(ctx, "A", kernel.CityHarar)
	b := suite.addShop(ctx, "B", kernel.CityDireDawa)
	suite.addShop(ctx, "C", kernel.CityHarar)

	shops, err := suite.repository.GetForUpdateSorted(ctx, []kernel.UUID{b.ID(), a.ID(), b.ID()})
	suite.Require().NoError(err)

	suite.Len(shops, 2)
	suite.Equal("A", shops[a.ID()].Name())
	suite.Equal("B", shops[b.ID()].Name())
}

func (suite *ShopRepositoryIntegrationTestSuite) TestGetForUpdateSorted_MissingShop_ReturnsNotFound() {
	ctx := context.Background()
	a := suite.addShop(ctx, "A", kernel.CityHarar)

	_, err := suite.repository.GetForUpdateSorted(ctx, []kernel.UUID{a.ID(), kernel.NewUUID()})

	suite.Equal(errs.CodeShopNotFound, errs.CodeOf(err))
}

func (suite *ShopRepositoryIntegrationTestSuite) TestCreditAndLedger_PersistBalanceChain() {
	ctx := context.Background()
	s := suite.addShop(ctx, "Harar Roastery", kernel.CityHarar)
	orderID := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first, err := s.Credit(orderID, 1, kernel.MustMoney("300"), now)
	suite.Require().NoError(err)
	second, err := s.Credit(orderID, 2, kernel.MustMoney("45.50"), now.Add(time.Millisecond))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.UpdateBalance(ctx, s))
	suite.Require().NoError(suite.repository.AppendLedgerEntries(ctx, []shop.LedgerEntry{first, second}))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.True(kernel.MustMoney("345.50").IsEqual(loaded.Balance()), loaded.Balance().String())

	entries, err := suite.repository.ListLedger(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(shop.EntryTypeCredit, entries[0].Type())
	suite.True(entries[0].BalanceBefore().IsZero())
	suite.True(entries[0].BalanceAfter().IsEqual(entries[1].BalanceBefore()))
	suite.True(kernel.MustMoney("345.50").IsEqual(entries[1].BalanceAfter()))
}

func (suite *ShopRepositoryIntegrationTestSuite) TestAppendLedgerEntries_DuplicateOrderLine_IsRetryableConflict() {
	ctx := context.Background()
	s := suite.addShop(ctx, "Harar Roastery", kernel.CityHarar)
	orderID := kernel.NewUUID()

	entry, err := s.Credit(orderID, 1, kernel.MustMoney("100"), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AppendLedgerEntries(ctx, []shop.LedgerEntry{entry}))

	again, err := s.Credit(orderID, 1, kernel.MustMoney("100"), time.Now())
	suite.Require().NoError(err)
	err = suite.repository.AppendLedgerEntries(ctx, []shop.LedgerEntry{again})

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	entries, err := suite.repository.ListLedger(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *ShopRepositoryIntegrationTestSuite) TestUpdateBalance_NonExistentShop_ReturnsNotFound() {
	s, err := shop.NewShop(kernel.NewUUID(), kernel.NewUUID(), "Ghost", kernel.CityHarar)
	suite.Require().NoError(err)

	err = suite.repository.UpdateBalance(context.Background(), s)

	suite.Equal(errs.CodeShopNotFound, errs.CodeOf(err))
}

func (suite *ShopRepositoryIntegrationTestSuite) addShop(ctx context.Context, name string, city kernel.City) *shop.Shop {
	s, err := shop.NewShop(kernel.NewUUID(), kernel.NewUUID(), name, city)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, s))
	return s
}

func TestShopRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShopRepositoryIntegrationTestSuite))
}
