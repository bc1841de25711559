package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Location is a place players stand in. Neighbors are the locations that can
// be walked to directly; the relation need not be symmetric.
type Location struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Neighbors   []string `json:"neighbors,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (l *Location) Validate() error {
	el := errors.NewErrorList()

	if l.Name == "" {
		el.Add(fmt.Errorf("location name is required"))
	}
	for i, n := range l.Neighbors {
		if n == "" {
			el.Add(fmt.Errorf("neighbor %d: id is required", i))
		}
	}

	return el.Err()
}

// HasNeighbor reports whether id can be walked to from this location.
func (l *Location) HasNeighbor(id string) bool {
	for _, n := range l.Neighbors {
		if n == id {
			return true
		}
	}
	return false
}
