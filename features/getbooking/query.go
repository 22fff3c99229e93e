package getbooking

import (
	"github.com/google/uuid"
)

const (
	queryType = "GetBooking"
)

// Query represents the intent to view a single reservation.
type Query struct {
	ReservationID uuid.UUID
	RequesterID   uuid.UUID
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(reservationID uuid.UUID, requesterID uuid.UUID) Query {
	return Query{
		ReservationID: reservationID,
		RequesterID:   requesterID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
