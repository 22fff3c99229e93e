package booking

import "context"

// ConsistencyLevel tells the store which database a read may be served from.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Commands validate against it before they write,
	// and it is what a context without any level means.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency lets the store read from a replica when one is configured.
	// Listings and item views use it.
	EventualConsistency
)

type consistencyKey struct{}

func withConsistency(ctx context.Context, level ConsistencyLevel) context.Context {
	return context.WithValue(ctx, consistencyKey{}, level)
}

// WithStrongConsistency pins reads made with the returned context to the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return withConsistency(ctx, StrongConsistency)
}

// WithEventualConsistency allows reads made with the returned context to hit a replica:
//
//	reservations, err := store.QueryReservations(booking.WithEventualConsistency(ctx), filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return withConsistency(ctx, EventualConsistency)
}

// GetConsistencyLevel returns the level carried by ctx, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	level, ok := ctx.Value(consistencyKey{}).(ConsistencyLevel)
	if !ok {
		return StrongConsistency
	}

	return level
}

var consistencyNames = map[ConsistencyLevel]string{
	StrongConsistency:   "strong",
	EventualConsistency: "eventual",
}

func (c ConsistencyLevel) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}

	return "unknown"
}
