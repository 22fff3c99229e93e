package cancomment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the QueryHandler for store operations.
type Store interface {
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
}

// QueryHandler answers the eligibility question with a single-row query.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle reports whether the user may comment on the item.
// Unknown users or items are simply not eligible. The read may be served by a replica.
func (h QueryHandler) Handle(ctx context.Context, query Query) (bool, error) {
	ctx = booking.WithEventualConsistency(ctx)

	completed, err := h.store.QueryReservations(ctx, BuildEligibilityFilter(query.UserID, query.ItemID, query.Now))
	if err != nil {
		return false, err
	}

	return len(completed) > 0, nil
}

// BuildEligibilityFilter selects at most one APPROVED reservation of the item by the user that ended before now.
func BuildEligibilityFilter(userID uuid.UUID, itemID uuid.UUID, now time.Time) booking.Filter {
	return booking.BuildReservationFilter().
		BookedBy(userID).
		ForItem(itemID).
		WithStatus(booking.StatusApproved).
		EndingBefore(now).
		Paged(0, 1).
		Finalize()
}
