package postgresengine

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithTablePrefix prefixes the names of all tables (and indexes) the Store uses.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) error {
		if prefix == "" {
			return booking.ErrEmptyTablePrefixSupplied
		}

		s.tables = newTableNames(prefix)

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger booking.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It takes precedence over the logger set with WithLogger.
func WithContextualLogger(logger booking.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// The collector will receive query/write durations, concurrency conflicts and database errors.
func WithMetrics(collector booking.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}
