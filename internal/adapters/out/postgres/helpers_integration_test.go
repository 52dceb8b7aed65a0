package postgres_test

import (
	"context"
	"time"

	postgres_adapter "campusmarket/internal/adapters/out/postgres"
	"campusmarket/internal/core/application/usecases/commands"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/retry"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// database is the PostgreSQL container shared by the tests of one suite.
type database struct {
	container *postgres.PostgresContainer
	db        *gorm.DB
}

func startDatabase(s *suite.Suite) database {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	s.Require().NoError(err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)

	s.Require().NoError(db.AutoMigrate(postgres_adapter.Models()...))

	return database{container: container, db: db}
}

func (d database) truncate(s *suite.Suite) {
	err := d.db.Exec(`TRUNCATE TABLE orders, order_items, order_status_history,
		shops, shop_ledger_entries, products, admin_audit_log`).Error
	s.Require().NoError(err)
}

func (d database) stop(s *suite.Suite) {
	if d.container != nil {
		s.Require().NoError(d.container.Terminate(context.Background()))
	}
}

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW {
	return f()
}

func commandsFactory(f *postgres_adapter.GormUnitOfWorkFactory) commands.UoWFactory {
	return uowFactoryFunc(func() commands.UoW {
		return f.Create()
	})
}

// integrationPolicy retries generously: the contention tests run many
// conflicting units of work at once.
func integrationPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:   10,
		InitialDelay:  5 * time.Millisecond,
		MaxDelay:      100 * time.Millisecond,
		BackoffFactor: 2,
		Jitter:        true,
		Retryable:     postgres_adapter.IsRetryable,
	}
}

type fixedOTP struct {
	code string
}

func (g fixedOTP) Generate() (order.OTPCode, error) {
	return order.ParseOTPCode(g.code)
}
