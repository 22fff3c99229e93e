package listbookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the QueryHandler for store operations.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
}

// QueryHandler orchestrates the workflow Validate -> Query.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns one page of the user's reservations.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]booking.Reservation, error) {
	if !query.State.IsValid() {
		return nil, booking.ErrUnsupportedState
	}

	if err := ValidatePage(query); err != nil {
		return nil, err
	}

	ctx = booking.WithEventualConsistency(ctx)

	exists, err := h.store.UserExists(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, booking.ErrUserNotFound
	}

	return h.store.QueryReservations(ctx, BuildReservationFilter(query))
}
