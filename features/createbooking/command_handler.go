package createbooking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the CommandHandler for store operations.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetItem(ctx context.Context, id uuid.UUID) (booking.Item, error)
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
	InsertReservation(ctx context.Context, reservation booking.Reservation) (booking.Reservation, error)
}

// CommandHandler orchestrates the workflow Load facts -> Decide -> Insert.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle validates the request and stores it as a WAITING reservation.
// It returns the stored reservation with its store-assigned id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (booking.Reservation, error) {
	ctx = booking.WithStrongConsistency(ctx)

	facts, err := h.loadFacts(ctx, command)
	if err != nil {
		return booking.Reservation{}, err
	}

	if decideErr := Decide(facts, command); decideErr != nil {
		return booking.Reservation{}, decideErr
	}

	return h.store.InsertReservation(ctx, booking.Reservation{
		ItemID:   command.ItemID,
		BookerID: command.BookerID,
		Start:    command.Start,
		End:      command.End,
		Status:   booking.StatusWaiting,
	})
}

func (h CommandHandler) loadFacts(ctx context.Context, command Command) (Facts, error) {
	facts := Facts{}

	exists, err := h.store.UserExists(ctx, command.BookerID)
	if err != nil {
		return Facts{}, err
	}

	facts.BookerExists = exists

	item, err := h.store.GetItem(ctx, command.ItemID)
	switch {
	case errors.Is(err, booking.ErrItemNotFound):
		return facts, nil
	case err != nil:
		return Facts{}, err
	}

	facts.ItemFound = true
	facts.Item = item

	if !command.End.After(command.Start) {
		return facts, nil
	}

	overlapping, err := h.store.QueryReservations(ctx, BuildOverlapFilter(command))
	if err != nil {
		return Facts{}, err
	}

	facts.ApprovedOverlaps = len(overlapping)

	return facts, nil
}

// BuildOverlapFilter selects at most one APPROVED reservation of the item intersecting the requested window.
func BuildOverlapFilter(command Command) booking.Filter {
	return booking.BuildReservationFilter().
		ForItem(command.ItemID).
		WithStatus(booking.StatusApproved).
		OverlappingWith(command.Start, command.End).
		Paged(0, 1).
		Finalize()
}
