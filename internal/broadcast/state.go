package broadcast

import (
	"fmt"
	"math"
	"sort"

	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/position"
)

// MessageState is the type of every state push.
const MessageState = "state"

// PlayerHere is one entry of a state push's co-located player list.
type PlayerHere struct {
	Identifier      string `json:"identifier"`
	ProgressPercent *int   `json:"progressPercent,omitempty"`
}

// State is what one viewer is told about its own position and the players
// sharing it.
type State struct {
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Road        string       `json:"road,omitempty"`
	PlayersHere []PlayerHere `json:"playersHere"`
}

// ProgressPercent is how far other has travelled as seen by a viewer on
// viewerRoad. Travelling the paired backward road shows the complement
// because the viewer measures from the opposite end.
func ProgressPercent(viewerRoad string, other *player.Player, otherRoadDistance float64) int {
	pct := int(math.Floor(other.Progress / otherRoadDistance * 100))
	if other.Road != viewerRoad {
		pct = 100 - pct
	}
	return pct
}

// BuildState builds the payload for viewer given everyone sharing its
// position, viewer included. Entries are ordered by identifier.
func BuildState(roads position.RoadLookup, viewer *player.Player, here []*player.Player) (State, error) {
	s := State{
		Type:        MessageState,
		Location:    viewer.Location,
		Road:        viewer.Road,
		PlayersHere: make([]PlayerHere, 0, len(here)),
	}

	sorted := append([]*player.Player(nil), here...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })

	for _, other := range sorted {
		entry := PlayerHere{Identifier: other.Id}

		if viewer.OnRoad() && other.OnRoad() {
			road, err := roads.Road(other.Road)
			if err != nil {
				return State{}, fmt.Errorf("building state for %q: %w", viewer.Id, err)
			}
			pct := ProgressPercent(viewer.Road, other, road.Distance)
			entry.ProgressPercent = &pct
		}

		s.PlayersHere = append(s.PlayersHere, entry)
	}

	return s, nil
}
