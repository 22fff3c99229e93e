package shell

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

// Option validation failures, returned by RetryWithExponentialBackoff before fn runs.
var (
	ErrNilMetricsCollector = errors.New("retry: metrics collector is nil")
	ErrEmptyCommandType    = errors.New("retry: command type is empty")
	ErrInvalidMaxAttempts  = errors.New("retry: max attempts must be at least 1")
	ErrNegativeBaseDelay   = errors.New("retry: base delay is negative")
	ErrInvalidJitterFactor = errors.New("retry: jitter factor outside [0, 1]")
)

// RetryableFunc is one attempt of a command.
type RetryableFunc func(ctx context.Context) error

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// backoff returns the wait before the given attempt: baseDelay doubled per earlier retry plus jitter.
func (c *retryConfig) backoff(attempt int) time.Duration {
	delay := c.baseDelay << (attempt - 1)
	jitter := time.Duration(rand.Float64() * c.jitterFactor * float64(delay)) //nolint:gosec // not security relevant

	return delay + jitter
}

func (c *retryConfig) countRetry(ctx context.Context, metric string, labels map[string]string) {
	if c.metricsCollector == nil {
		return
	}

	if contextual, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	c.metricsCollector.IncrementCounter(metric, labels)
}

func (c *retryConfig) recordDelay(ctx context.Context, attempt int, delay time.Duration) {
	if c.metricsCollector == nil {
		return
	}

	labels := map[string]string{LogAttrCommandType: c.commandType, logAttrAttemptNumber: strconv.Itoa(attempt)}

	if contextual, ok := c.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, CommandHandlerRetryDelayMetric, delay, labels)
		return
	}

	c.metricsCollector.RecordDuration(CommandHandlerRetryDelayMetric, delay, labels)
}

// RetryWithExponentialBackoff runs fn again while it loses a compare-and-set race
// (booking.ErrConcurrencyConflict). With the defaults the waits between the six attempts are
// 10, 20, 40, 80 and 160 ms plus up to 30% jitter. Any other error ends the loop at once.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	err := fn(ctx)

	for attempt := 1; attempt < config.maxAttempts && isRetryableError(err); attempt++ {
		config.countRetry(ctx, CommandHandlerRetriesMetric, BuildRetryLabels(config.commandType, attempt, errorTypeOf(err)))

		delay := config.backoff(attempt)
		config.recordDelay(ctx, attempt, delay)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		err = fn(ctx)
	}

	if isRetryableError(err) {
		config.countRetry(ctx, CommandHandlerMaxRetriesReachedMetric, map[string]string{
			LogAttrCommandType: config.commandType,
			"final_error_type": errorTypeOf(err),
		})
	}

	return err
}

// isRetryableError reports whether err is a lost compare-and-set race; timeouts must fail fast.
func isRetryableError(err error) bool {
	return errors.Is(err, booking.ErrConcurrencyConflict)
}

func errorTypeOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, booking.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}

// RetryOption adjusts one retry setting and rejects invalid values.
type RetryOption func(*retryConfig) error

func rejectIf(invalid bool, err error, apply func()) error {
	if invalid {
		return err
	}

	apply()

	return nil
}

// WithMaxAttempts counts the first try, so 1 disables retrying.
func WithMaxAttempts(attempts int) RetryOption {
	return func(c *retryConfig) error {
		return rejectIf(attempts < 1, ErrInvalidMaxAttempts, func() { c.maxAttempts = attempts })
	}
}

// WithBaseDelay sets the first backoff. Each further retry doubles it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(c *retryConfig) error {
		return rejectIf(delay < 0, ErrNegativeBaseDelay, func() { c.baseDelay = delay })
	}
}

// WithJitterFactor adds up to factor times the backoff as random extra wait.
func WithJitterFactor(factor float64) RetryOption {
	return func(c *retryConfig) error {
		return rejectIf(factor < 0 || factor > 1, ErrInvalidJitterFactor, func() { c.jitterFactor = factor })
	}
}

// WithMetrics reports retries, delays and exhausted attempts labelled with commandType.
func WithMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(c *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		return rejectIf(commandType == "", ErrEmptyCommandType, func() {
			c.metricsCollector, c.commandType = collector, commandType
		})
	}
}
