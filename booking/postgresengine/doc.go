// Package postgresengine provides a PostgreSQL implementation of the booking store.
//
// The Store persists users, items, reservations and comments, and serves the reservation
// range queries described by booking.Filter. It supports multiple database adapters
// (pgx, sql.DB, sqlx), each optionally with a read replica that serves queries running
// under booking.WithEventualConsistency.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Approval as a single conditional UPDATE (compare-and-set on the status column)
//   - LIMIT 1 range queries backed by the (item_id, status, start_at) index
//   - Configurable table prefix, logger, contextual logger and metrics collector
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStoreFromPGXPool(db)
//	_ = store.Migrate(ctx)
//
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		db,
//		postgresengine.WithTablePrefix("booking_"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	reservation, _ := store.InsertReservation(ctx, reservation)
//	err := store.UpdateReservationStatus(ctx, reservation.ID, booking.StatusWaiting, booking.StatusApproved)
package postgresengine
