package testdoubles

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// MetricKind tells which MetricsCollector method produced a SpyMetricRecord.
type MetricKind int

const (
	DurationMetric MetricKind = iota
	CounterMetric
	ValueMetric
)

// SpyMetricRecord is one captured call. Context is nil for the non-contextual methods.
type SpyMetricRecord struct {
	Kind     MetricKind
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
	Context  context.Context
}

// MetricsCollectorSpy records every call made to it as a booking.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []SpyMetricRecord
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) capture(record SpyMetricRecord) {
	record.Labels = maps.Clone(record.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: DurationMetric, Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: CounterMetric, Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: ValueMetric, Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: DurationMetric, Metric: metric, Duration: duration, Labels: labels, Context: ctx})
}

func (s *MetricsCollectorSpy) IncrementCounterContext(ctx context.Context, metric string, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: CounterMetric, Metric: metric, Labels: labels, Context: ctx})
}

func (s *MetricsCollectorSpy) RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: ValueMetric, Metric: metric, Value: value, Labels: labels, Context: ctx})
}

// Records returns a snapshot of everything captured so far, in call order.
func (s *MetricsCollectorSpy) Records() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matching(DurationMetric, metric)
}

func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matching(CounterMetric, metric)
}

func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matching(ValueMetric, metric)
}

func (s *MetricsCollectorSpy) matching(kind MetricKind, metric string) *MetricRecordMatcher {
	m := &MetricRecordMatcher{}

	for _, record := range s.Records() {
		if record.Kind == kind && record.Metric == metric {
			m.candidates = append(m.candidates, record.Labels)
		}
	}

	return m
}

// MetricRecordMatcher narrows the records of one metric label by label:
//
//	spy.HasCounterRecordForMetric(name).WithStatus("error").Assert()
type MetricRecordMatcher struct {
	candidates []map[string]string
}

func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	m.candidates = slices.DeleteFunc(m.candidates, func(labels map[string]string) bool {
		got, ok := labels[key]
		return !ok || got != value
	})

	return m
}

func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// Assert reports whether any record survived the chain.
func (m *MetricRecordMatcher) Assert() bool {
	return m.Count() > 0
}

func (m *MetricRecordMatcher) Count() int {
	return len(m.candidates)
}

var _ booking.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
