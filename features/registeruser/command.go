package registeruser

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	commandType = "RegisterUser"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Command represents the intent to register a user.
type Command struct {
	Name  string `validate:"required,max=255"`
	Email string `validate:"required,email,max=512"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command, trimming the name and the email.
func BuildCommand(name string, email string) Command {
	return Command{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
}
