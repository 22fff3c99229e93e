package approvebooking

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Decide implements the business logic of the WAITING -> APPROVED | REJECTED transition.
// This is a pure function with no side effects - it returns the status to write or an error.
//
// Business Rules:
//
//	GIVEN: A reservation and the number of APPROVED reservations overlapping it
//	WHEN: ApproveBooking command is received
//	THEN: APPROVED is returned if Approved is set, REJECTED otherwise
//	ERROR: booking.ErrAlreadyDecided if the reservation is not WAITING anymore
//	ERROR: booking.ErrNotItemOwner if the actor does not own the booked item
//	ERROR: booking.ErrBookingOverlap if approving would double-book the item
func Decide(reservation booking.Reservation, approvedOverlaps int, command Command) (booking.Status, error) {
	if reservation.Status != booking.StatusWaiting {
		return "", booking.ErrAlreadyDecided
	}

	if reservation.ItemOwnerID != command.ActorID {
		return "", booking.ErrNotItemOwner
	}

	if command.Approved && approvedOverlaps > 0 {
		return "", booking.ErrBookingOverlap
	}

	return booking.DecisionStatus(command.Approved), nil
}
