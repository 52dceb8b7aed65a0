package cmd

import (
	"log/slog"
	"testing"
	"time"

	"campusmarket/internal/pkg/errs"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{}})

	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.KafkaHost)
	assert.Equal(t, "*/10 * * * * *", cfg.RefundDispatchSchedule)
	assert.Equal(t, 50, cfg.RefundDispatchBatch)

	p := cfg.RetryPolicy()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 20*time.Millisecond, p.InitialDelay)
	assert.Equal(t, 500*time.Millisecond, p.MaxDelay)
	assert.True(t, p.Retryable(errs.NewVersionIsInvalidError("order")))
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"DB_HOST":                "db",
		"DB_PASSWORD":            "secret",
		"LOG_LEVEL":              "DEBUG",
		"KAFKA_HOST":             "k1:9092,k2:9092",
		"TX_MAX_ATTEMPTS":        "8",
		"TX_RETRY_INITIAL_DELAY": "5ms",
		"TX_RETRY_MAX_DELAY":     "1s",
	}})

	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "k1:9092,k2:9092", cfg.KafkaHost)
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=campusmarket sslmode=disable", cfg.DSN())
	assert.Equal(t, 8, cfg.RetryPolicy().MaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryPolicy().MaxDelay)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"no attempts":       {"TX_MAX_ATTEMPTS": "0"},
		"max below initial": {"TX_RETRY_INITIAL_DELAY": "1s", "TX_RETRY_MAX_DELAY": "10ms"},
		"empty batch":       {"REFUND_DISPATCH_BATCH": "0"},
		"not a number":      {"TX_MAX_ATTEMPTS": "many"},
		"unknown log level": {"LOG_LEVEL": "LOUD"},
		"not a duration":    {"TX_RETRY_MAX_DELAY": "soon"},
	}

	for name, environment := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(env.Options{Environment: environment})

			require.Error(t, err)
		})
	}
}
