package createbooking

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Facts is what the CommandHandler knows about the world when a booking request arrives.
type Facts struct {
	BookerExists bool
	ItemFound    bool
	Item         booking.Item

	// ApprovedOverlaps counts APPROVED reservations of the item intersecting the requested window.
	ApprovedOverlaps int
}

// Decide implements the business logic to validate a booking request.
// This is a pure function with no side effects; the first violated rule wins.
//
// Business Rules:
//
//	GIVEN: A booker and an item
//	WHEN: CreateBooking command is received
//	THEN: nil is returned and a WAITING reservation may be stored
//	ERROR: booking.ErrUserNotFound if the booker does not exist
//	ERROR: booking.ErrItemNotFound if the item does not exist
//	ERROR: booking.ErrItemUnavailable if the item is flagged unavailable
//	ERROR: booking.ErrOwnerCannotBook if the booker owns the item
//	ERROR: booking.ErrInvalidTimeRange if End is not strictly after Start
//	ERROR: booking.ErrBookingOverlap if an APPROVED reservation intersects the window
func Decide(facts Facts, command Command) error {
	switch {
	case !facts.BookerExists:
		return booking.ErrUserNotFound
	case !facts.ItemFound:
		return booking.ErrItemNotFound
	case !facts.Item.Available:
		return booking.ErrItemUnavailable
	case facts.Item.OwnerID == command.BookerID:
		return booking.ErrOwnerCannotBook
	case !command.End.After(command.Start):
		return booking.ErrInvalidTimeRange
	case facts.ApprovedOverlaps > 0:
		return booking.ErrBookingOverlap
	}

	return nil
}
