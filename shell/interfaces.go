package shell

import (
	"context"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Command represents the contract for all command types.
// CommandType is used for labeling logs and metrics and is called on zero values.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
// QueryType is used for labeling logs and metrics and is called on zero values.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command and returns the resulting state.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler processes a query and returns its projection.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// MetricsCollector is the collector interface handlers and wrappers record to.
type MetricsCollector = booking.MetricsCollector

// ContextualMetricsCollector is used instead of MetricsCollector when the collector supports it.
type ContextualMetricsCollector = booking.ContextualMetricsCollector

// Logger is the basic logger interface.
type Logger = booking.Logger

// ContextualLogger is the context-aware logger interface, preferred over Logger.
type ContextualLogger = booking.ContextualLogger
