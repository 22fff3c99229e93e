package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/item-booking-go/shell"
)

// handlerFamily names the metrics, log messages and type attribute of commands or of queries.
type handlerFamily struct {
	typeAttr       string
	durationMetric string
	callsMetric    string
	started        string
	completed      string
	rejected       string
	failed         string
	isRejection    func(status string) bool
}

var commandFamily = handlerFamily{
	typeAttr:       shell.LogAttrCommandType,
	durationMetric: shell.CommandHandlerDurationMetric,
	callsMetric:    shell.CommandHandlerCallsMetric,
	started:        shell.LogMsgCommandStarted,
	completed:      shell.LogMsgCommandCompleted,
	rejected:       shell.LogMsgCommandRejected,
	failed:         shell.LogMsgCommandFailed,
	// a lost race that survived all retries is still the caller's problem, not ours
	isRejection: func(status string) bool {
		return status == shell.StatusRejected || status == shell.StatusConcurrencyConflict
	},
}

var queryFamily = handlerFamily{
	typeAttr:       shell.LogAttrQueryType,
	durationMetric: shell.QueryHandlerDurationMetric,
	callsMetric:    shell.QueryHandlerCallsMetric,
	started:        shell.LogMsgQueryStarted,
	completed:      shell.LogMsgQueryCompleted,
	rejected:       shell.LogMsgQueryRejected,
	failed:         shell.LogMsgQueryFailed,
	isRejection: func(status string) bool {
		return status == shell.StatusRejected
	},
}

// instruments holds the optional sinks shared by both wrappers. The contextual logger wins over the plain one.
type instruments struct {
	metrics          shell.MetricsCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// observe runs call and reports its duration and outcome for the handler named handlerType.
func (in *instruments) observe(ctx context.Context, family handlerFamily, handlerType string, call func() error) error {
	in.logInfo(ctx, family.started, family.typeAttr, handlerType)

	start := time.Now()
	err := call()
	duration := time.Since(start)

	status := shell.StatusOf(err)
	in.record(ctx, family, map[string]string{family.typeAttr: handlerType, shell.LogAttrStatus: status}, duration)

	args := []any{
		family.typeAttr, handlerType,
		shell.LogAttrStatus, status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	}

	switch {
	case err == nil:
		in.logInfo(ctx, family.completed, args...)
	case family.isRejection(status):
		in.logInfo(ctx, family.rejected, append(args, shell.LogAttrError, err.Error())...)
	default:
		in.logError(ctx, family.failed, append(args, shell.LogAttrError, err.Error())...)
	}

	return err
}

func (in *instruments) record(ctx context.Context, family handlerFamily, labels map[string]string, duration time.Duration) {
	switch collector := in.metrics.(type) {
	case nil:
	case shell.ContextualMetricsCollector:
		collector.RecordDurationContext(ctx, family.durationMetric, duration, labels)
		collector.IncrementCounterContext(ctx, family.callsMetric, labels)
	default:
		collector.RecordDuration(family.durationMetric, duration, labels)
		collector.IncrementCounter(family.callsMetric, labels)
	}
}

func (in *instruments) logInfo(ctx context.Context, msg string, args ...any) {
	switch {
	case in.contextualLogger != nil:
		in.contextualLogger.InfoContext(ctx, msg, args...)
	case in.logger != nil:
		in.logger.Info(msg, args...)
	}
}

func (in *instruments) logError(ctx context.Context, msg string, args ...any) {
	switch {
	case in.contextualLogger != nil:
		in.contextualLogger.ErrorContext(ctx, msg, args...)
	case in.logger != nil:
		in.logger.Error(msg, args...)
	}
}
