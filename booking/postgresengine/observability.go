package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	metricQueryDuration        = "booking_store_query_duration_seconds"
	metricWriteDuration        = "booking_store_write_duration_seconds"
	metricConcurrencyConflicts = "booking_store_concurrency_conflicts_total"
	metricDatabaseErrors       = "booking_store_database_errors_total"
	labelOperation             = "operation"
	labelStatus                = "status"
	labelErrorType             = "error_type"
	labelConflictType          = "conflict_type"
	conflictTypeConcurrency    = "concurrency"
	conflictTypeOverlap        = "overlap"
	statusSuccess              = "success"
	statusError                = "error"
	errorTypeBuildQuery        = "build_query"
	errorTypeDatabaseQuery     = "database_query"
	errorTypeDatabaseExec      = "database_exec"
	errorTypeRowsAffected      = "rows_affected"
	errorTypeRowScan           = "row_scan"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (s *Store) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
		return
	}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (s *Store) logOperation(ctx context.Context, action string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (s *Store) logWarn(ctx context.Context, message string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, args...)
		return
	}

	if s.logger != nil {
		s.logger.Warn(message, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (s *Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s *Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics records database error metrics if a collector is configured.
func (s *Store) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(booking.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// recordDurationMetrics records duration metrics if a collector is configured.
func (s *Store) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(booking.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordConcurrencyConflictMetrics records a lost compare-and-set or a refused overlapping approval.
func (s *Store) recordConcurrencyConflictMetrics(ctx context.Context, operation, conflictType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation:    operation,
		labelConflictType: conflictType,
	}

	if contextualCollector, ok := s.metricsCollector.(booking.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricConcurrencyConflicts, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}
