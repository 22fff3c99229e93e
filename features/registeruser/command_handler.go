package registeruser

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Store defines the interface needed by the CommandHandler for store operations.
type Store interface {
	RegisterUser(ctx context.Context, user booking.User) (booking.User, error)
}

// CommandHandler validates and stores new users.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle returns the registered user with its store-assigned id.
// An email that is already taken yields booking.ErrDuplicateEntity.
func (h CommandHandler) Handle(ctx context.Context, command Command) (booking.User, error) {
	if err := validate.Struct(command); err != nil {
		return booking.User{}, errors.Join(booking.ErrInvalidUser, err)
	}

	return h.store.RegisterUser(booking.WithStrongConsistency(ctx), booking.User{
		Name:  command.Name,
		Email: command.Email,
	})
}
