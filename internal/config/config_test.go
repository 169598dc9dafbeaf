package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/threadline/workwear-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/workwear")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("SHIPPING_FLAT_RATE", "")
	t.Setenv("RATE_LIMIT_MAX", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, 168*time.Hour, cfg.CartTTL)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, 20, cfg.CatalogDefaultLimit)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, 4, cfg.WorkerConcurrency)
	require.True(t, cfg.MigrateOnStart)
	require.True(t, cfg.ShippingFlatRate.Equal(decimal.RequireFromString("5.99")))
	require.True(t, cfg.PerAdditionalLogoFee.Equal(decimal.RequireFromString("2.50")))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/workwear")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("CART_TTL", "48h")
	t.Setenv("SHIPPING_FLAT_RATE", "7.50")
	t.Setenv("RATE_LIMIT_MAX", "30")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 48*time.Hour, cfg.CartTTL)
	require.Equal(t, 30, cfg.RateLimitMax)
	require.False(t, cfg.MigrateOnStart)
	require.True(t, cfg.ShippingFlatRate.Equal(decimal.RequireFromString("7.50")))
}

func TestLoadRequiresConnectionStrings(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	_, err := config.Load()
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/workwear")
	t.Setenv("REDIS_URL", "")
	_, err = config.Load()
	require.ErrorContains(t, err, "REDIS_URL")
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/workwear")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CART_TTL", "not-a-duration")
	t.Setenv("SHIPPING_FLAT_RATE", "free")
	t.Setenv("RATE_LIMIT_MAX", "-5")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 168*time.Hour, cfg.CartTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.True(t, cfg.ShippingFlatRate.Equal(decimal.RequireFromString("5.99")))
}
