package fastslam

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned when an unknown movement command is sent
var ErrUnknownCommand = errors.New("unknown command")

// Command is agent movement command
type Command int

const (
	// Forward moves the agent forward along its heading
	Forward Command = iota
	// TurnLeft rotates the agent by negative rotation
	TurnLeft
	// TurnRight rotates the agent by positive rotation
	TurnRight
)

var commandNames = map[Command]string{
	Forward:   "Forward",
	TurnLeft:  "Turn left",
	TurnRight: "Turn right",
}

// String implements the Stringer interface.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand returns the command with the given name.
// It returns ErrUnknownCommand if no such command exists.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}
