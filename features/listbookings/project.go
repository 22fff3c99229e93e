package listbookings

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// ValidatePage checks the pagination parameters.
//
// Query Logic:
//
//	GIVEN: From and Size of a query
//	WHEN: ListBookings query is executed
//	THEN: nil is returned for From >= 0 and Size > 0
//	ERROR: booking.ErrInvalidPagination otherwise
func ValidatePage(query Query) error {
	if query.From < 0 || query.Size <= 0 {
		return booking.ErrInvalidPagination
	}

	return nil
}

// BuildReservationFilter translates the query into a store filter.
//
//	INCLUDES: reservations of the user seen from the viewpoint, matching the state at Now
//	ORDER: start descending, ties by id descending
//	PAGE: [From, From+Size)
func BuildReservationFilter(query Query) booking.Filter {
	fb := query.Viewpoint.Scope(booking.BuildReservationFilter(), query.UserID)
	fb = query.State.Restrict(fb, query.Now)

	return fb.Paged(query.From, query.Size).Finalize()
}
