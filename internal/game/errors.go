package game

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotConnected   = errors.New("player not connected")
)
