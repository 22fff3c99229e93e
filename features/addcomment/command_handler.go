package addcomment

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/cancomment"
)

// Store defines the interface needed by the CommandHandler for store operations.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (booking.User, error)
	GetItem(ctx context.Context, id uuid.UUID) (booking.Item, error)
	QueryReservations(ctx context.Context, filter booking.Filter) ([]booking.Reservation, error)
	InsertComment(ctx context.Context, comment booking.Comment) (booking.Comment, error)
}

// CommandHandler orchestrates the workflow Load -> Decide -> Insert.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle stores the comment and returns it with the author's name.
func (h CommandHandler) Handle(ctx context.Context, command Command) (booking.Comment, error) {
	ctx = booking.WithStrongConsistency(ctx)

	author, err := h.store.GetUser(ctx, command.AuthorID)
	if err != nil {
		return booking.Comment{}, err
	}

	if _, err = h.store.GetItem(ctx, command.ItemID); err != nil {
		return booking.Comment{}, err
	}

	completed, err := h.store.QueryReservations(
		ctx,
		cancomment.BuildEligibilityFilter(command.AuthorID, command.ItemID, command.CreatedAt),
	)
	if err != nil {
		return booking.Comment{}, err
	}

	if decideErr := Decide(len(completed) > 0, command); decideErr != nil {
		return booking.Comment{}, decideErr
	}

	comment, err := h.store.InsertComment(ctx, booking.Comment{
		ItemID:   command.ItemID,
		AuthorID: author.ID,
		Text:     command.Text,
		Created:  command.CreatedAt,
	})
	if err != nil {
		return booking.Comment{}, err
	}

	comment.AuthorName = author.Name

	return comment, nil
}
