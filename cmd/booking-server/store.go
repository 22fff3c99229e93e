package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/item-booking-go/booking/postgresengine"
	"github.com/AntonStoeckl/item-booking-go/shell/config"
)

// openStore connects with the configured driver and, when configured, a read replica for
// eventually consistent queries.
func openStore(ctx context.Context, cfg config.Config, obs observability) (*postgresengine.Store, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.contextualLogger),
		postgresengine.WithMetrics(obs.metrics),
	}

	if cfg.TablePrefix != "" {
		options = append(options, postgresengine.WithTablePrefix(cfg.TablePrefix))
	}

	switch cfg.DBDriver {
	case config.DriverSQL:
		return openSQLStore(ctx, cfg, options)
	case config.DriverSQLX:
		return openSQLXStore(ctx, cfg, options)
	default:
		return openPGXStore(ctx, cfg, options)
	}
}

func newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := config.PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}

func openPGXStore(ctx context.Context, cfg config.Config, options []postgresengine.Option) (*postgresengine.Store, func(), error) {
	primary, err := newPGXPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.HasReplica() {
		store, storeErr := postgresengine.NewStoreFromPGXPool(primary, options...)
		if storeErr != nil {
			primary.Close()
			return nil, nil, storeErr
		}

		return store, primary.Close, nil
	}

	replica, err := newPGXPool(ctx, cfg.DatabaseReplicaURL)
	if err != nil {
		primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		replica.Close()
		primary.Close()
	}

	store, err := postgresengine.NewStoreFromPGXPoolAndReplica(primary, replica, options...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}

func openSQLStore(ctx context.Context, cfg config.Config, options []postgresengine.Option) (*postgresengine.Store, func(), error) {
	primary, err := config.PostgresSQLDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.HasReplica() {
		store, storeErr := postgresengine.NewStoreFromSQLDB(primary, options...)
		if storeErr != nil {
			_ = primary.Close()
			return nil, nil, storeErr
		}

		return store, func() { _ = primary.Close() }, nil
	}

	replica, err := config.PostgresSQLDB(ctx, cfg.DatabaseReplicaURL)
	if err != nil {
		_ = primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		_ = replica.Close()
		_ = primary.Close()
	}

	store, err := postgresengine.NewStoreFromSQLDBAndReplica(primary, replica, options...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}

func openSQLXStore(ctx context.Context, cfg config.Config, options []postgresengine.Option) (*postgresengine.Store, func(), error) {
	primary, err := config.PostgresSQLX(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.HasReplica() {
		store, storeErr := postgresengine.NewStoreFromSQLX(primary, options...)
		if storeErr != nil {
			_ = primary.Close()
			return nil, nil, storeErr
		}

		return store, func() { _ = primary.Close() }, nil
	}

	replica, err := config.PostgresSQLX(ctx, cfg.DatabaseReplicaURL)
	if err != nil {
		_ = primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		_ = replica.Close()
		_ = primary.Close()
	}

	store, err := postgresengine.NewStoreFromSQLXAndReplica(primary, replica, options...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}
