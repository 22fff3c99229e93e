package getbooking

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the QueryHandler for store operations.
type Store interface {
	GetReservation(ctx context.Context, id uuid.UUID) (booking.Reservation, error)
}

// QueryHandler loads a reservation and checks that the requester takes part in it.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the reservation, booking.ErrReservationNotFound or booking.ErrNotBookingParticipant.
// The read is strongly consistent so that a booker can read a reservation right after creating it.
func (h QueryHandler) Handle(ctx context.Context, query Query) (booking.Reservation, error) {
	ctx = booking.WithStrongConsistency(ctx)

	reservation, err := h.store.GetReservation(ctx, query.ReservationID)
	if err != nil {
		return booking.Reservation{}, err
	}

	if !reservation.InvolvesUser(query.RequesterID) {
		return booking.Reservation{}, booking.ErrNotBookingParticipant
	}

	return reservation, nil
}
