package commands

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
)

// Name identifies one of the player commands.
type Name string

const (
	EnterLocation Name = "enterLocation"
	EnterRoad     Name = "enterRoad"
	Move          Name = "move"
	TurnAround    Name = "turnAround"
)

// Command is one inbound player command. Target holds the location or road
// id for the enter commands; Distance is only meaningful for Move.
type Command struct {
	Name     Name
	Target   string
	Distance float64
}

// Validate checks that the command carries the arguments its name needs.
func (c Command) Validate() error {
	el := errors.NewErrorList()

	switch c.Name {
	case EnterLocation, EnterRoad:
		if c.Target == "" {
			el.Add(fmt.Errorf("%s: target is required", c.Name))
		}
	case Move:
		if math.IsNaN(c.Distance) || math.IsInf(c.Distance, 0) {
			el.Add(fmt.Errorf("%s: distance must be a finite number", c.Name))
		}
	case TurnAround:
	default:
		el.Add(fmt.Errorf("%w: %q", ErrUnknownCommand, c.Name))
	}

	return el.Err()
}

func (c Command) String() string {
	switch c.Name {
	case EnterLocation, EnterRoad:
		return fmt.Sprintf("%s(%s)", c.Name, c.Target)
	case Move:
		return fmt.Sprintf("%s(%g)", c.Name, c.Distance)
	default:
		return fmt.Sprintf("%s()", c.Name)
	}
}
