package session

import "errors"

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrAlreadyConnected  = errors.New("identifier already connected")
)
