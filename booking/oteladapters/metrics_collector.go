package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// MetricsCollector is a booking.ContextualMetricsCollector on top of an OpenTelemetry meter.
// Durations become Float64Histograms in seconds, counters Int64Counters and values Float64Gauges.
// Each instrument is created on first use of its name.
type MetricsCollector struct {
	histograms *instruments[metric.Float64Histogram]
	counters   *instruments[metric.Int64Counter]
	gauges     *instruments[metric.Float64Gauge]
}

func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		histograms: newInstruments(func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name, metric.WithDescription("Item booking operation duration"), metric.WithUnit("s"))
		}),
		counters: newInstruments(func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Item booking operation counter"))
		}),
		gauges: newInstruments(func(name string) (metric.Float64Gauge, error) {
			return meter.Float64Gauge(name, metric.WithDescription("Item booking current value"))
		}),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	if histogram, ok := m.histograms.named(metricName); ok {
		histogram.Record(ctx, duration.Seconds(), withLabels(labels))
	}
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	if counter, ok := m.counters.named(metricName); ok {
		counter.Add(ctx, 1, withLabels(labels))
	}
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	if gauge, ok := m.gauges.named(metricName); ok {
		gauge.Record(ctx, value, withLabels(labels))
	}
}

// instruments caches one kind of instrument by metric name.
type instruments[I any] struct {
	mu     sync.Mutex
	byName map[string]I
	create func(name string) (I, error)
}

func newInstruments[I any](create func(name string) (I, error)) *instruments[I] {
	return &instruments[I]{byName: make(map[string]I), create: create}
}

// named reports false when the meter refuses the instrument; the measurement is then dropped
// and creation is attempted again next time.
func (c *instruments[I]) named(name string) (I, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if instrument, ok := c.byName[name]; ok {
		return instrument, true
	}

	instrument, err := c.create(name)
	if err != nil {
		return instrument, false
	}

	c.byName[name] = instrument

	return instrument, true
}

// withLabels covers both metric.RecordOption and metric.AddOption.
func withLabels(labels map[string]string) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return metric.WithAttributes(attrs...)
}

var _ booking.ContextualMetricsCollector = (*MetricsCollector)(nil)
