// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// Config captures every runtime knob of the storefront services.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	CORSAllowedOrigins []string
	CurrencyCode       string

	CartTTL         time.Duration
	IdempotencyTTL  time.Duration
	CatalogCacheTTL time.Duration

	CatalogDefaultLimit int
	CatalogMaxLimit     int

	ShippingFlatRate     decimal.Decimal
	PerAdditionalLogoFee decimal.Decimal

	RateLimitWindow time.Duration
	RateLimitMax    int

	MigrateOnStart    bool
	WorkerConcurrency int
}

// Load reads configuration from the environment, applying defaults for
// everything except DATABASE_URL and REDIS_URL.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:               valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                 valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:          k.String("DATABASE_URL"),
		RedisURL:             k.String("REDIS_URL"),
		CORSAllowedOrigins:   splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
		CurrencyCode:         valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		CartTTL:              parseDuration(k.String("CART_TTL"), 168*time.Hour),
		IdempotencyTTL:       parseDuration(k.String("IDEMPOTENCY_TTL"), 24*time.Hour),
		CatalogCacheTTL:      parseDuration(k.String("CATALOG_CACHE_TTL"), 5*time.Minute),
		CatalogDefaultLimit:  intOrDefault(k, "CATALOG_DEFAULT_LIMIT", 20),
		CatalogMaxLimit:      intOrDefault(k, "CATALOG_MAX_LIMIT", 100),
		ShippingFlatRate:     parseDecimal(k.String("SHIPPING_FLAT_RATE"), "5.99"),
		PerAdditionalLogoFee: parseDecimal(k.String("PER_ADDITIONAL_LOGO_FEE"), "2.50"),
		RateLimitWindow:      parseDuration(k.String("RATE_LIMIT_WINDOW"), time.Minute),
		RateLimitMax:         intOrDefault(k, "RATE_LIMIT_MAX", 120),
		MigrateOnStart:       parseBool(k.String("DB_MIGRATE_ON_START"), true),
		WorkerConcurrency:    intOrDefault(k, "WORKER_CONCURRENCY", 4),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	return cfg, nil
}

// HTTPAddr returns the listen address for the API server.
func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseDecimal(value, fallback string) decimal.Decimal {
	if value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}

func parseBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func intOrDefault(k *koanf.Koanf, key string, fallback int) int {
	if !k.Exists(key) {
		return fallback
	}
	if v := k.Int(key); v > 0 {
		return v
	}
	return fallback
}
