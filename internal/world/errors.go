package world

import "errors"

var (
	ErrNotFound = errors.New("not found")
)
