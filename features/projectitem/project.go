package projectitem

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// ProjectItemView implements the projection of an item for a viewing user.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: An item, its comments and the candidates for last and next booking
//	WHEN: ProjectItem query is executed
//	THEN: ItemView is returned with the comments
//	INCLUDES: LastBooking and NextBooking, only if the viewer owns the item
//	EXCLUDES: LastBooking with start >= Now, NextBooking with start <= Now
func ProjectItemView(
	item booking.Item,
	comments []booking.Comment,
	last []booking.Reservation,
	next []booking.Reservation,
	query Query,
) booking.ItemView {
	view := booking.ItemView{
		Item:     item,
		Comments: comments,
	}

	if item.OwnerID != query.ViewerID {
		return view
	}

	if len(last) > 0 && last[0].Start.Before(query.Now) {
		view.LastBooking = last[0].Summary()
	}

	if len(next) > 0 && next[0].Start.After(query.Now) {
		view.NextBooking = next[0].Summary()
	}

	return view
}

// BuildLastBookingFilter selects the approved reservation of the item with the greatest start before now.
func BuildLastBookingFilter(query Query) booking.Filter {
	return booking.BuildReservationFilter().
		ForItem(query.ItemID).
		WithStatus(booking.StatusApproved).
		StartingBefore(query.Now).
		Paged(0, 1).
		Finalize()
}

// BuildNextBookingFilter selects the approved reservation of the item with the smallest start after now.
func BuildNextBookingFilter(query Query) booking.Filter {
	return booking.BuildReservationFilter().
		ForItem(query.ItemID).
		WithStatus(booking.StatusApproved).
		StartingAfter(query.Now).
		SortedByStartAscending().
		Paged(0, 1).
		Finalize()
}
