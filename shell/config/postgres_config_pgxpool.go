package config

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxPoolLimits are the pool settings the booking server runs with, independent of what the DSN says.
var pgxPoolLimits = struct {
	maxConns          int32
	minConns          int32
	maxConnLifetime   time.Duration
	maxConnIdleTime   time.Duration
	healthCheckPeriod time.Duration
	connectTimeout    time.Duration
}{
	maxConns:          8,
	minConns:          2,
	maxConnLifetime:   time.Hour,
	maxConnIdleTime:   5 * time.Minute,
	healthCheckPeriod: time.Minute,
	connectTimeout:    5 * time.Second,
}

// PostgresPGXPoolConfig parses dsn and applies the server's pool limits.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns, poolConfig.MinConns = pgxPoolLimits.maxConns, pgxPoolLimits.minConns
	poolConfig.MaxConnLifetime = pgxPoolLimits.maxConnLifetime
	poolConfig.MaxConnIdleTime = pgxPoolLimits.maxConnIdleTime
	poolConfig.HealthCheckPeriod = pgxPoolLimits.healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = pgxPoolLimits.connectTimeout

	return poolConfig, nil
}
