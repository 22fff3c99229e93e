package observable

import (
	"context"

	"github.com/AntonStoeckl/item-booking-go/shell"
)

// CommandWrapper decorates a command handler with duration and call metrics and outcome logging.
type CommandWrapper[C shell.Command, R any] struct {
	core        shell.CommandHandler[C, R]
	commandType string
	instruments
}

// CommandOption configures a CommandWrapper.
type CommandOption[C shell.Command, R any] func(*CommandWrapper[C, R]) error

// NewCommandWrapper wraps core. Without options the wrapper only delegates.
func NewCommandWrapper[C shell.Command, R any](core shell.CommandHandler[C, R], opts ...CommandOption[C, R]) (*CommandWrapper[C, R], error) {
	var command C
	w := &CommandWrapper[C, R]{core: core, commandType: command.CommandType()}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	var result R

	err := w.observe(ctx, commandFamily, w.commandType, func() error {
		var handleErr error
		result, handleErr = w.core.Handle(ctx, command)

		return handleErr
	})

	return result, err
}

func WithCommandMetrics[C shell.Command, R any](collector shell.MetricsCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.metrics = collector
		return nil
	}
}

func WithCommandContextualLogging[C shell.Command, R any](logger shell.ContextualLogger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

func WithCommandLogging[C shell.Command, R any](logger shell.Logger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.logger = logger
		return nil
	}
}
