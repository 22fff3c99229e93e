package cancomment

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	queryType = "CanComment"
)

// Query represents the question whether a user may comment on an item.
type Query struct {
	UserID uuid.UUID
	ItemID uuid.UUID
	Now    time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(userID uuid.UUID, itemID uuid.UUID, now time.Time) Query {
	return Query{
		UserID: userID,
		ItemID: itemID,
		Now:    booking.ToTimestamp(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
