package approvebooking

import (
	"github.com/google/uuid"
)

const (
	commandType = "ApproveBooking"
)

// Command represents the owner's decision on a reservation.
type Command struct {
	ActorID       uuid.UUID
	ReservationID uuid.UUID
	Approved      bool
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actorID uuid.UUID, reservationID uuid.UUID, approved bool) Command {
	return Command{
		ActorID:       actorID,
		ReservationID: reservationID,
		Approved:      approved,
	}
}
