package world

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-roads/internal/storage"
)

// Graph is the immutable catalog of locations and roads. It is safe for
// concurrent use because nothing mutates it after NewGraph returns.
type Graph struct {
	locations map[string]*Location
	roads     map[string]*Road

	// roadsFrom indexes road ids by their origin, sorted.
	roadsFrom map[string][]string
}

// NewGraph builds a Graph and checks every cross reference between records.
func NewGraph(locations storage.Storer[*Location], roads storage.Storer[*Road]) (*Graph, error) {
	g := &Graph{
		locations: locations.GetAll(),
		roads:     roads.GetAll(),
		roadsFrom: map[string][]string{},
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	for id, r := range g.roads {
		g.roadsFrom[r.From] = append(g.roadsFrom[r.From], id)
	}
	for _, ids := range g.roadsFrom {
		sort.Strings(ids)
	}

	return g, nil
}

func (g *Graph) validate() error {
	el := errors.NewErrorList()

	for id, l := range g.locations {
		for _, n := range l.Neighbors {
			if _, ok := g.locations[n]; !ok {
				el.Add(fmt.Errorf("location %q: neighbor %q does not exist", id, n))
			}
		}
	}

	for id, r := range g.roads {
		if _, ok := g.locations[r.From]; !ok {
			el.Add(fmt.Errorf("road %q: from location %q does not exist", id, r.From))
		}
		if _, ok := g.locations[r.To]; !ok {
			el.Add(fmt.Errorf("road %q: to location %q does not exist", id, r.To))
		}
		if r.OneWay() {
			continue
		}
		if r.Backward == id {
			el.Add(fmt.Errorf("road %q: backward road cannot be itself", id))
			continue
		}
		back, ok := g.roads[r.Backward]
		if !ok {
			el.Add(fmt.Errorf("road %q: backward road %q does not exist", id, r.Backward))
			continue
		}
		if back.Backward != id {
			el.Add(fmt.Errorf("road %q: backward road %q does not point back", id, r.Backward))
		}
	}

	return el.Err()
}

// Location returns the location with the given id.
func (g *Graph) Location(id string) (*Location, error) {
	l, ok := g.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %q: %w", id, ErrNotFound)
	}
	return l, nil
}

// Road returns the road with the given id.
func (g *Graph) Road(id string) (*Road, error) {
	r, ok := g.roads[id]
	if !ok {
		return nil, fmt.Errorf("road %q: %w", id, ErrNotFound)
	}
	return r, nil
}

// RoadsFrom returns the ids of roads starting at location id.
func (g *Graph) RoadsFrom(id string) []string {
	return append([]string(nil), g.roadsFrom[id]...)
}

// LocationIds returns every location id in sorted order.
func (g *Graph) LocationIds() []string {
	return sortedKeys(g.locations)
}

// RoadIds returns every road id in sorted order.
func (g *Graph) RoadIds() []string {
	return sortedKeys(g.roads)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
