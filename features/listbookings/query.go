package listbookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	queryType = "ListBookings"

	// DefaultPageSize is used by callers that do not specify a page size.
	DefaultPageSize = 10
)

// Query represents the intent to list a user's reservations.
type Query struct {
	UserID    uuid.UUID
	Viewpoint booking.Viewpoint
	State     booking.State
	From      int
	Size      int
	Now       time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(
	userID uuid.UUID,
	viewpoint booking.Viewpoint,
	state booking.State,
	from int,
	size int,
	now time.Time,
) Query {
	return Query{
		UserID:    userID,
		Viewpoint: viewpoint,
		State:     state,
		From:      from,
		Size:      size,
		Now:       booking.ToTimestamp(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
