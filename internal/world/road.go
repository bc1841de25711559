package world

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
)

// Road is a one-directional path between two locations. Backward names the
// road travelling the same physical path the other way, if there is one.
type Road struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Distance    float64 `json:"distance"`
	Backward    string  `json:"backward,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
// Cross references are checked when the Graph is built.
func (r *Road) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("road name is required"))
	}
	if r.From == "" {
		el.Add(fmt.Errorf("from is required"))
	}
	if r.To == "" {
		el.Add(fmt.Errorf("to is required"))
	}
	if !(r.Distance > 0) || math.IsInf(r.Distance, 0) {
		el.Add(fmt.Errorf("distance must be a positive number"))
	}

	return el.Err()
}

// OneWay reports whether the road has no backward counterpart.
func (r *Road) OneWay() bool {
	return r.Backward == ""
}
