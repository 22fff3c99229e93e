package adapters

import (
	"context"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// DBAdapter is the narrow surface the booking store needs from a database driver.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows is satisfied by *sql.Rows and *sqlx.Rows as they are; pgx rows get a thin wrapper.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult is satisfied by sql.Result.
type DBResult interface {
	RowsAffected() (int64, error)
}

// connections pairs the primary handle with an optional replica handle of the same driver type.
type connections[T any] struct {
	primary    T
	replica    T
	hasReplica bool
}

func primaryOnly[T any](primary T) connections[T] {
	return connections[T]{primary: primary}
}

func withReplica[T any](primary, replica T) connections[T] {
	return connections[T]{primary: primary, replica: replica, hasReplica: true}
}

// forRead selects the replica only when one is configured and the context asks for eventual consistency.
func (c connections[T]) forRead(ctx context.Context) T {
	if readsFromReplica(ctx, c.hasReplica) {
		return c.replica
	}

	return c.primary
}

// forWrite always selects the primary.
func (c connections[T]) forWrite() T {
	return c.primary
}

func readsFromReplica(ctx context.Context, hasReplica bool) bool {
	return hasReplica && booking.GetConsistencyLevel(ctx) == booking.EventualConsistency
}
