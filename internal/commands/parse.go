package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FrameAuth is the type of the handshake frame.
const FrameAuth = "auth"

// Frame is the JSON message a websocket client sends.
type Frame struct {
	Type     string   `json:"type"`
	Id       string   `json:"id,omitempty"`
	Location string   `json:"location,omitempty"`
	Road     string   `json:"road,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

// DecodeFrame unmarshals a websocket message.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return f, nil
}

// Command converts a non-handshake frame into a Command.
func (f Frame) Command() (Command, error) {
	var c Command

	switch lookupName(f.Type) {
	case EnterLocation:
		c = Command{Name: EnterLocation, Target: f.Location}
	case EnterRoad:
		c = Command{Name: EnterRoad, Target: f.Road}
	case Move:
		if f.Distance == nil {
			return Command{}, fmt.Errorf("%w: move requires a distance", ErrMalformed)
		}
		c = Command{Name: Move, Distance: *f.Distance}
	case TurnAround:
		c = Command{Name: TurnAround}
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, f.Type)
	}

	if err := c.Validate(); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return c, nil
}

// ParseLine parses a line protocol command such as "move 12.5".
func ParseLine(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}
	args := parts[1:]

	var c Command
	switch lookupName(parts[0]) {
	case EnterLocation:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: usage: enterLocation <location>", ErrMalformed)
		}
		c = Command{Name: EnterLocation, Target: args[0]}
	case EnterRoad:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: usage: enterRoad <road>", ErrMalformed)
		}
		c = Command{Name: EnterRoad, Target: args[0]}
	case Move:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: usage: move <distance>", ErrMalformed)
		}
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: distance %q is not a number", ErrMalformed, args[0])
		}
		c = Command{Name: Move, Distance: d}
	case TurnAround:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: usage: turnAround", ErrMalformed)
		}
		c = Command{Name: TurnAround}
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}

	if err := c.Validate(); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return c, nil
}

var names = map[string]Name{
	strings.ToLower(string(EnterLocation)): EnterLocation,
	strings.ToLower(string(EnterRoad)):     EnterRoad,
	strings.ToLower(string(Move)):          Move,
	strings.ToLower(string(TurnAround)):    TurnAround,
}

func lookupName(s string) Name {
	return names[strings.ToLower(s)]
}
