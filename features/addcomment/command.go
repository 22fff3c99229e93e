package addcomment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

const (
	commandType = "AddComment"
)

// Command represents the intent of a user to comment on an item.
type Command struct {
	AuthorID  uuid.UUID
	ItemID    uuid.UUID
	Text      string
	CreatedAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command, trimming the text.
func BuildCommand(authorID uuid.UUID, itemID uuid.UUID, text string, createdAt time.Time) Command {
	return Command{
		AuthorID:  authorID,
		ItemID:    itemID,
		Text:      strings.TrimSpace(text),
		CreatedAt: booking.ToTimestamp(createdAt),
	}
}
