package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"sync"
)

// recordLog is shared by a LogHandlerSpy and every handler derived from it with WithAttrs.
type recordLog struct {
	mu      sync.Mutex
	records []slog.Record
}

// LogHandlerSpy is a slog.Handler that keeps every record for later inspection.
type LogHandlerSpy struct {
	log    *recordLog
	attrs  []slog.Attr
	echoTo slog.Handler
}

// NewLogHandlerSpy creates a spy accepting every level. With echo set, records are
// also written as JSON to stdout, handy when a test needs debugging.
func NewLogHandlerSpy(echo bool) *LogHandlerSpy {
	spy := &LogHandlerSpy{log: &recordLog{}}
	if echo {
		spy.echoTo = slog.NewJSONHandler(os.Stdout, nil)
	}

	return spy
}

func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	if len(s.attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(s.attrs...)
	}

	s.log.mu.Lock()
	s.log.records = append(s.log.records, record)
	s.log.mu.Unlock()

	if s.echoTo != nil {
		return s.echoTo.Handle(ctx, record)
	}

	return nil
}

func (s *LogHandlerSpy) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandlerSpy{log: s.log, attrs: slices.Concat(s.attrs, attrs), echoTo: s.echoTo}
}

// WithGroup ignores groups, attributes stay flat.
func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()

	return slices.Clone(s.log.records)
}

func (s *LogHandlerSpy) GetRecordCount() int {
	return len(s.GetRecords())
}

func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	return s.HasLogWithMessage(level, message).Assert()
}

// HasLogWithMessage starts a matcher over the records with exactly this level and message.
func (s *LogHandlerSpy) HasLogWithMessage(level slog.Level, message string) *SpyLogRecordMatcher {
	candidates := slices.DeleteFunc(s.GetRecords(), func(record slog.Record) bool {
		return record.Level != level || record.Message != message
	})

	return &SpyLogRecordMatcher{candidates: candidates}
}

type SpyLogRecordMatcher struct {
	candidates []slog.Record
}

func (m *SpyLogRecordMatcher) WithAttr(key string) *SpyLogRecordMatcher {
	return m.keepIfAnyAttr(func(attr slog.Attr) bool { return attr.Key == key })
}

// WithAttrValue compares the attribute's rendered value, so numbers are matched as text.
func (m *SpyLogRecordMatcher) WithAttrValue(key, value string) *SpyLogRecordMatcher {
	return m.keepIfAnyAttr(func(attr slog.Attr) bool { return attr.Key == key && attr.Value.String() == value })
}

// WithDurationMS requires a numeric duration_ms that is not negative.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.keepIfAnyAttr(func(attr slog.Attr) bool {
		if attr.Key != "duration_ms" {
			return false
		}

		v := attr.Value
		return (v.Kind() == slog.KindFloat64 && v.Float64() >= 0) || (v.Kind() == slog.KindInt64 && v.Int64() >= 0)
	})
}

func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *SpyLogRecordMatcher) Count() int {
	return len(m.candidates)
}

func (m *SpyLogRecordMatcher) keepIfAnyAttr(match func(slog.Attr) bool) *SpyLogRecordMatcher {
	m.candidates = slices.DeleteFunc(m.candidates, func(record slog.Record) bool {
		matched := false
		record.Attrs(func(attr slog.Attr) bool {
			matched = match(attr)
			return !matched
		})

		return !matched
	})

	return m
}
