package observable

import (
	"context"

	"github.com/AntonStoeckl/item-booking-go/shell"
)

// QueryWrapper is the query side counterpart of CommandWrapper.
type QueryWrapper[Q shell.Query, R any] struct {
	core      shell.QueryHandler[Q, R]
	queryType string
	instruments
}

type QueryOption[Q shell.Query, R any] func(*QueryWrapper[Q, R]) error

func NewQueryWrapper[Q shell.Query, R any](core shell.QueryHandler[Q, R], opts ...QueryOption[Q, R]) (*QueryWrapper[Q, R], error) {
	var query Q
	w := &QueryWrapper[Q, R]{core: core, queryType: query.QueryType()}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	var result R

	err := w.observe(ctx, queryFamily, w.queryType, func() error {
		var handleErr error
		result, handleErr = w.core.Handle(ctx, query)

		return handleErr
	})

	return result, err
}

func WithQueryMetrics[Q shell.Query, R any](collector shell.MetricsCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.metrics = collector
		return nil
	}
}

func WithQueryContextualLogging[Q shell.Query, R any](logger shell.ContextualLogger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

func WithQueryLogging[Q shell.Query, R any](logger shell.Logger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) error {
		w.logger = logger
		return nil
	}
}
