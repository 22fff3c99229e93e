package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"
)

// Supported values of DB_DRIVER.
const (
	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"
)

const (
	envDatabaseURL        = "DATABASE_URL"
	envDatabaseReplicaURL = "DATABASE_REPLICA_URL"
	envDBDriver           = "DB_DRIVER"
	envHTTPAddr           = "HTTP_ADDR"
	envLogLevel           = "LOG_LEVEL"
	envLogFile            = "LOG_FILE"
	envRateLimit          = "RATE_LIMIT"
	envRateLimitRedisURL  = "RATE_LIMIT_REDIS_URL"
	envRequestTimeout     = "REQUEST_TIMEOUT"
	envTablePrefix        = "TABLE_PREFIX"

	defaultHTTPAddr       = ":8080"
	defaultLogLevel       = "info"
	defaultRateLimit      = "100-M"
	defaultRequestTimeout = 5 * time.Second
)

var (
	// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")

	// ErrUnsupportedDriver is returned when DB_DRIVER is none of pgx, sql, sqlx.
	ErrUnsupportedDriver = errors.New("unsupported DB_DRIVER")

	// ErrInvalidValue is returned when a variable cannot be parsed.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config is the complete process configuration.
type Config struct {
	DatabaseURL        string
	DatabaseReplicaURL string
	DBDriver           string
	HTTPAddr           string
	LogLevel           slog.Level
	LogFile            string
	RateLimit          limiter.Rate
	RateLimitRedisURL  string
	RequestTimeout     time.Duration
	TablePrefix        string
}

// HasReplica reports whether eventually consistent reads can be served by a replica.
func (c Config) HasReplica() bool {
	return c.DatabaseReplicaURL != ""
}

// Load reads the given .env files (default: .env in the working directory) and then the environment.
// Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Join(ErrInvalidValue, err)
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds the Config from a lookup function with the semantics of os.LookupEnv.
func FromLookup(lookup func(key string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}

		return fallback
	}

	cfg := Config{
		DatabaseURL:        get(envDatabaseURL, ""),
		DatabaseReplicaURL: get(envDatabaseReplicaURL, ""),
		DBDriver:           strings.ToLower(get(envDBDriver, DriverPGX)),
		HTTPAddr:           get(envHTTPAddr, defaultHTTPAddr),
		LogFile:            get(envLogFile, ""),
		RateLimitRedisURL:  get(envRateLimitRedisURL, ""),
		TablePrefix:        get(envTablePrefix, ""),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	switch cfg.DBDriver {
	case DriverPGX, DriverSQL, DriverSQLX:
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.DBDriver)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get(envLogLevel, defaultLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, envLogLevel, err)
	}

	rate, rateErr := limiter.NewRateFromFormatted(get(envRateLimit, defaultRateLimit))
	if rateErr != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, envRateLimit, rateErr)
	}

	cfg.RateLimit = rate

	cfg.RequestTimeout = defaultRequestTimeout
	if raw := get(envRequestTimeout, ""); raw != "" {
		timeout, parseErr := time.ParseDuration(raw)
		if parseErr != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("%w: %s: %q", ErrInvalidValue, envRequestTimeout, raw)
		}

		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}
