package projectitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	queryType = "ProjectItem"
)

// Query represents the intent of a user to view an item.
type Query struct {
	ItemID   uuid.UUID
	ViewerID uuid.UUID
	Now      time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(itemID uuid.UUID, viewerID uuid.UUID, now time.Time) Query {
	return Query{
		ItemID:   itemID,
		ViewerID: viewerID,
		Now:      booking.ToTimestamp(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
