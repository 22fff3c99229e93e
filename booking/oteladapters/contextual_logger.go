package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// SlogBridgeLogger is a booking.ContextualLogger backed by a *slog.Logger.
// Embedding promotes the four *Context methods of slog.Logger unchanged.
type SlogBridgeLogger struct {
	*slog.Logger
}

// NewSlogBridgeLogger emits through the OpenTelemetry slog bridge and the global LoggerProvider,
// so records pick up the span found in ctx.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{Logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler skips the bridge and writes to handler directly.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{Logger: slog.New(handler)}
}

var _ booking.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger writes booking log records straight to an OpenTelemetry logs API logger.
// Args are read as key/value pairs with string values; a trailing key without value is dropped.
type OTelLogger struct {
	logger log.Logger
}

func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args...)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args...)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args...)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args...)
}

func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args ...any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetSeverityText(severityText(severity))
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(attributesFrom(args)...)

	l.logger.Emit(ctx, record)
}

func attributesFrom(args []any) []log.KeyValue {
	attrs := make([]log.KeyValue, 0, len(args)/2)

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		attrs = append(attrs, log.String(key, stringValue(args[i+1])))
	}

	return attrs
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return slog.AnyValue(v).String()
}

var severityTexts = map[log.Severity]string{
	log.SeverityDebug: "DEBUG",
	log.SeverityInfo:  "INFO",
	log.SeverityWarn:  "WARN",
	log.SeverityError: "ERROR",
}

func severityText(severity log.Severity) string {
	return severityTexts[severity]
}

var _ booking.ContextualLogger = (*OTelLogger)(nil)
