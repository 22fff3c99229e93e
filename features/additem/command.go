package additem

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	commandType = "AddItem"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Command represents the intent of an owner to offer an item.
type Command struct {
	OwnerID     uuid.UUID
	Name        string `validate:"required,max=255"`
	Description string `validate:"max=4096"`
	Available   bool
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID uuid.UUID, name string, description string, available bool) Command {
	return Command{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Available:   available,
	}
}
