// Package testdoubles provides spies for the observability interfaces of the booking packages.
//
//   - MetricsCollectorSpy: captures durations, counters and values, with or without context
//   - LogHandlerSpy: a slog.Handler that captures records and their attributes
//
// Wrap a LogHandlerSpy with slog.New to use it as a booking.Logger or booking.ContextualLogger.
package testdoubles
