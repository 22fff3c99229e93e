package projectitem

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the QueryHandler for store operations.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetItem(ctx context.Context, id uuid.UUID) (booking.Item, error)
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
	QueryCommentsByItem(ctx context.Context, itemID uuid.UUID) ([]booking.Comment, error)
}

// QueryHandler orchestrates the workflow Query -> Project.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the item as seen by the viewer.
func (h QueryHandler) Handle(ctx context.Context, query Query) (booking.ItemView, error) {
	ctx = booking.WithEventualConsistency(ctx)

	exists, err := h.store.UserExists(ctx, query.ViewerID)
	if err != nil {
		return booking.ItemView{}, err
	}

	if !exists {
		return booking.ItemView{}, booking.ErrUserNotFound
	}

	item, err := h.store.GetItem(ctx, query.ItemID)
	if err != nil {
		return booking.ItemView{}, err
	}

	comments, err := h.store.QueryCommentsByItem(ctx, item.ID)
	if err != nil {
		return booking.ItemView{}, err
	}

	var last, next []booking.Reservation

	if item.OwnerID == query.ViewerID {
		if last, err = h.store.QueryReservations(ctx, BuildLastBookingFilter(query)); err != nil {
			return booking.ItemView{}, err
		}

		if next, err = h.store.QueryReservations(ctx, BuildNextBookingFilter(query)); err != nil {
			return booking.ItemView{}, err
		}
	}

	return ProjectItemView(item, comments, last, next, query), nil
}
