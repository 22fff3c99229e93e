package shell

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Metric names reported by the observable wrappers and by RetryWithExponentialBackoff.
const (
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	CommandHandlerCallsMetric    = "commandhandler_handle_calls_total"
	QueryHandlerDurationMetric   = "queryhandler_handle_duration_seconds"
	QueryHandlerCallsMetric      = "queryhandler_handle_calls_total"

	// CommandHandlerRetriesMetric is labelled with command_type, attempt_number and error_type.
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"
)

// Outcome of one handler call, see StatusOf.
const (
	StatusSuccess             = "success"
	StatusRejected            = "rejected"
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"
)

const (
	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected the command"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryRejected    = "query handler rejected the query"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType = "command_type"
	LogAttrQueryType   = "query_type"
	LogAttrStatus      = "status"
	LogAttrErrorKind   = "error_kind"
	LogAttrDurationMS  = "duration_ms"
	LogAttrError       = "error"

	logAttrAttemptNumber = "attempt_number"
	logAttrErrorType     = "error_type"
)

// BuildRetryLabels returns the labels of CommandHandlerRetriesMetric.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType:   commandType,
		logAttrAttemptNumber: strconv.Itoa(attemptNumber),
		logAttrErrorType:     errorType,
	}
}

// StatusOf classifies the outcome of a handler call.
// A booking.Error of any kind but internal is the caller's fault and counts as rejected.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, booking.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case booking.KindOf(err) != booking.KindInternal:
		return StatusRejected
	default:
		return StatusError
	}
}

// ToMilliseconds rounds d to microsecond precision, expressed in milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())) / 1000
}
