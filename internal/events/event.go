// Package events journals player activity to an AMQP topic exchange.
package events

import (
	"time"

	"github.com/pixil98/go-roads/internal/position"
)

// Kind is the routing suffix of an event. Movement events use the movement
// outcome as their kind.
type Kind string

const (
	KindConnected    Kind = "connected"
	KindDisconnected Kind = "disconnected"
)

// Event is one journal entry.
type Event struct {
	Identifier string       `json:"identifier"`
	Kind       Kind         `json:"kind"`
	Command    string       `json:"command,omitempty"`
	From       position.Key `json:"from,omitempty"`
	To         position.Key `json:"to,omitempty"`
	Location   string       `json:"location"`
	Road       string       `json:"road,omitempty"`
	Progress   float64      `json:"progress,omitempty"`
	At         time.Time    `json:"at"`
}

// RoutingKey is the topic the event is published under.
func (e Event) RoutingKey() string {
	return "movement." + string(e.Kind)
}
