package main

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/booking/oteladapters"
	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine"
	"github.com/AntonStoeckl/item-booking-go/features/addcomment"
	"github.com/AntonStoeckl/item-booking-go/features/additem"
	"github.com/AntonStoeckl/item-booking-go/features/approvebooking"
	"github.com/AntonStoeckl/item-booking-go/features/cancomment"
	"github.com/AntonStoeckl/item-booking-go/features/createbooking"
	"github.com/AntonStoeckl/item-booking-go/features/getbooking"
	"github.com/AntonStoeckl/item-booking-go/features/listbookings"
	"github.com/AntonStoeckl/item-booking-go/features/projectitem"
	"github.com/AntonStoeckl/item-booking-go/features/registeruser"
	"github.com/AntonStoeckl/item-booking-go/httpapi"
	"github.com/AntonStoeckl/item-booking-go/shell"
	"github.com/AntonStoeckl/item-booking-go/shell/config"
	"github.com/AntonStoeckl/item-booking-go/shell/observable"
)

type observability struct {
	logger           *slog.Logger
	contextualLogger *oteladapters.SlogBridgeLogger
	metrics          *oteladapters.MetricsCollector
}

func wrapCommand[C shell.Command, R any](core shell.CommandHandler[C, R], obs observability) (shell.CommandHandler[C, R], error) {
	return observable.NewCommandWrapper(core,
		observable.WithCommandMetrics[C, R](obs.metrics),
		observable.WithCommandContextualLogging[C, R](obs.contextualLogger),
	)
}

func wrapQuery[Q shell.Query, R any](core shell.QueryHandler[Q, R], obs observability) (shell.QueryHandler[Q, R], error) {
	return observable.NewQueryWrapper(core,
		observable.WithQueryMetrics[Q, R](obs.metrics),
		observable.WithQueryContextualLogging[Q, R](obs.contextualLogger),
	)
}

// newHandlers builds all feature handlers on the store and wraps them with logging and metrics.
func newHandlers(store *postgresengine.Store, obs observability) (httpapi.Handlers, error) {
	var (
		handlers httpapi.Handlers
		err      error
	)

	if handlers.RegisterUser, err = wrapCommand[registeruser.Command, booking.User](
		registeruser.NewCommandHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.AddItem, err = wrapCommand[additem.Command, booking.Item](
		additem.NewCommandHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.CreateBooking, err = wrapCommand[createbooking.Command, booking.Reservation](
		createbooking.NewCommandHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	approve := approvebooking.NewCommandHandler(store, approvebooking.WithRetryOptions(
		shell.WithMetrics(obs.metrics, approvebooking.Command{}.CommandType()),
	))
	if handlers.ApproveBooking, err = wrapCommand[approvebooking.Command, booking.Reservation](approve, obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.AddComment, err = wrapCommand[addcomment.Command, booking.Comment](
		addcomment.NewCommandHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.GetBooking, err = wrapQuery[getbooking.Query, booking.Reservation](
		getbooking.NewQueryHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.ListBookings, err = wrapQuery[listbookings.Query, []booking.Reservation](
		listbookings.NewQueryHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.ProjectItem, err = wrapQuery[projectitem.Query, booking.ItemView](
		projectitem.NewQueryHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.CanComment, err = wrapQuery[cancomment.Query, bool](
		cancomment.NewQueryHandler(store), obs); err != nil {
		return httpapi.Handlers{}, err
	}

	return handlers, nil
}

// newRouterOptions selects the Redis rate limiter when RATE_LIMIT_REDIS_URL is set, the
// in-memory one otherwise.
func newRouterOptions(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]httpapi.Option, func(), error) {
	options := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithRequestTimeout(cfg.RequestTimeout),
		httpapi.WithCORS(),
	}

	if cfg.RateLimitRedisURL == "" {
		return append(options, httpapi.WithRateLimiter(httpapi.NewMemoryRateLimiter(cfg.RateLimit))), func() {}, nil
	}

	lim, client, err := httpapi.NewRedisRateLimiter(ctx, cfg.RateLimitRedisURL, cfg.RateLimit)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("closing redis client failed", "error", closeErr.Error())
		}
	}

	return append(options, httpapi.WithRateLimiter(lim)), closeFn, nil
}
