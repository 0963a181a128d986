package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/ulule/limiter/v3"
	"golang.org/x/text/currency"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBMaxConns         int32
	DBMigrateOnStart   bool
	RedisURL           string
	CORSAllowedOrigins []string

	CatalogCacheTTL    time.Duration
	CatalogSearchLimit int
	IdempotencyTTL     time.Duration
	BodyLimitBytes     int64
	CurrencyCode       string

	ShoppingRequireComplete bool
	ShoppingRateLimit       int
	ShoppingRateWindow      time.Duration
	GlobalRateLimit         string

	ImageDir          string
	ImageFetchTimeout time.Duration
	WorkerConcurrency int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        strings.TrimSpace(k.String("DATABASE_URL")),
		DBMaxConns:         int32(parseInt(k.String("DB_MAX_CONNS"), 10)),
		DBMigrateOnStart:   parseBool(k.String("DB_MIGRATE_ON_START"), false),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		CatalogSearchLimit: parseInt(k.String("CATALOG_SEARCH_LIMIT"), 50),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		BodyLimitBytes:     int64(parseInt(k.String("BODY_LIMIT_BYTES"), 16<<10)),
		CurrencyCode:       strings.ToUpper(valueOrDefault(k.String("CURRENCY_CODE"), "USD")),

		ShoppingRequireComplete: parseBool(k.String("SHOPPING_REQUIRE_COMPLETE"), true),
		ShoppingRateLimit:       parseInt(k.String("SHOPPING_RATE_LIMIT"), 60),
		ShoppingRateWindow:      parseDuration(k.String("SHOPPING_RATE_WINDOW"), "1m"),
		GlobalRateLimit:         valueOrDefault(k.String("GLOBAL_RATE_LIMIT"), "300-M"),

		ImageDir:          valueOrDefault(k.String("IMAGE_DIR"), "./images"),
		ImageFetchTimeout: parseDuration(k.String("IMAGE_FETCH_TIMEOUT"), "10s"),
		WorkerConcurrency: parseInt(k.String("WORKER_CONCURRENCY"), 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if _, err := currency.ParseISO(cfg.CurrencyCode); err != nil {
		return nil, fmt.Errorf("CURRENCY_CODE %q: %w", cfg.CurrencyCode, err)
	}
	if _, err := limiter.NewRateFromFormatted(cfg.GlobalRateLimit); err != nil {
		return nil, fmt.Errorf("GLOBAL_RATE_LIMIT %q: %w", cfg.GlobalRateLimit, err)
	}
	if cfg.ShoppingRateLimit < 0 {
		return nil, errors.New("SHOPPING_RATE_LIMIT must not be negative")
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 1
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Currency returns the configured ISO currency unit.
func (c *Config) Currency() currency.Unit {
	unit, err := currency.ParseISO(c.CurrencyCode)
	if err != nil {
		return currency.USD
	}
	return unit
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
