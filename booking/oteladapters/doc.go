// Package oteladapters provides OpenTelemetry implementations of the booking observability interfaces.
//
// SlogBridgeLogger and OTelLogger implement booking.ContextualLogger, MetricsCollector implements
// booking.ContextualMetricsCollector. The HTTP server wires them into the store and the
// observable handler wrappers.
package oteladapters
