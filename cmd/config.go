package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"campusmarket/internal/adapters/out/postgres"
	"campusmarket/internal/pkg/errs"
	"campusmarket/internal/pkg/retry"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT"   envDefault:"8082"`
	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"DB_USER"     envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"     envDefault:"campusmarket"`
	DBSslMode  string `env:"DB_SSLMODE"  envDefault:"disable"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// KafkaHost is a comma separated broker list; empty logs notifications
	// and refund requests instead of publishing them.
	KafkaHost                 string `env:"KAFKA_HOST"`
	KafkaOrderChangedTopic    string `env:"KAFKA_ORDER_CHANGED_TOPIC"    envDefault:"order.changed"`
	KafkaRefundRequestedTopic string `env:"KAFKA_REFUND_REQUESTED_TOPIC" envDefault:"refund.requested"`

	TxMaxAttempts       int           `env:"TX_MAX_ATTEMPTS"        envDefault:"5"`
	TxRetryInitialDelay time.Duration `env:"TX_RETRY_INITIAL_DELAY" envDefault:"20ms"`
	TxRetryMaxDelay     time.Duration `env:"TX_RETRY_MAX_DELAY"     envDefault:"500ms"`

	RefundDispatchSchedule string `env:"REFUND_DISPATCH_SCHEDULE" envDefault:"*/10 * * * * *"`
	RefundDispatchBatch    int    `env:"REFUND_DISPATCH_BATCH"    envDefault:"50"`
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var checks []error
	if c.TxMaxAttempts < 1 {
		checks = append(checks, errs.NewValueIsOutOfRangeError("TX_MAX_ATTEMPTS", c.TxMaxAttempts, 1, "unbounded"))
	}
	if c.TxRetryInitialDelay <= 0 || c.TxRetryMaxDelay < c.TxRetryInitialDelay {
		checks = append(checks, errs.NewValueIsOutOfRangeError("TX_RETRY_MAX_DELAY",
			c.TxRetryMaxDelay, c.TxRetryInitialDelay, "unbounded"))
	}
	if c.RefundDispatchBatch < 1 {
		checks = append(checks, errs.NewValueIsOutOfRangeError("REFUND_DISPATCH_BATCH", c.RefundDispatchBatch, 1, "unbounded"))
	}
	return errors.Join(checks...)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// RetryPolicy is the policy of every mutating unit of work.
func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy(postgres.IsRetryable)
	p.MaxAttempts = c.TxMaxAttempts
	p.InitialDelay = c.TxRetryInitialDelay
	p.MaxDelay = c.TxRetryMaxDelay
	return p
}
