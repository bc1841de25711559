package movement

import "errors"

var (
	// ErrInvalidTransition marks a command the player's current state does
	// not allow. It is dropped silently; clients only see that nothing moved.
	ErrInvalidTransition = errors.New("invalid transition")
)
