package createbooking

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	commandType = "CreateBooking"
)

// Command represents the intent of a booker to reserve an item for a time window.
type Command struct {
	BookerID uuid.UUID
	ItemID   uuid.UUID
	Start    time.Time
	End      time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command, normalizing the window to stored precision.
func BuildCommand(bookerID uuid.UUID, itemID uuid.UUID, start time.Time, end time.Time) Command {
	return Command{
		BookerID: bookerID,
		ItemID:   itemID,
		Start:    booking.ToTimestamp(start),
		End:      booking.ToTimestamp(end),
	}
}
