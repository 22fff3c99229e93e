package additem

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the CommandHandler for store operations.
type Store interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	AddItem(ctx context.Context, item booking.Item) (booking.Item, error)
}

// CommandHandler validates and stores new items.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle returns the added item with its store-assigned id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (booking.Item, error) {
	if err := validate.Struct(command); err != nil {
		return booking.Item{}, errors.Join(booking.ErrInvalidItem, err)
	}

	ctx = booking.WithStrongConsistency(ctx)

	exists, err := h.store.UserExists(ctx, command.OwnerID)
	if err != nil {
		return booking.Item{}, err
	}

	if !exists {
		return booking.Item{}, booking.ErrUserNotFound
	}

	return h.store.AddItem(ctx, booking.Item{
		OwnerID:     command.OwnerID,
		Name:        command.Name,
		Description: command.Description,
		Available:   command.Available,
	})
}
