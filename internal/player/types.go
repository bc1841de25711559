package player

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
)

// Player is the persisted position of one client identifier. Road and
// Progress are set together while the player travels a road; Location is
// always the last location the player stood in.
type Player struct {
	Id       string  `json:"-"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Road     string  `json:"road,omitempty"`
	Progress float64 `json:"progress,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (p *Player) Validate() error {
	el := errors.NewErrorList()

	if p.Location == "" {
		el.Add(fmt.Errorf("location is required"))
	}
	if p.Road == "" && p.Progress != 0 {
		el.Add(fmt.Errorf("progress requires a road"))
	}
	if p.Progress < 0 || math.IsNaN(p.Progress) || math.IsInf(p.Progress, 0) {
		el.Add(fmt.Errorf("progress must be a non-negative number"))
	}

	return el.Err()
}

// OnRoad reports whether the player is travelling a road.
func (p *Player) OnRoad() bool {
	return p.Road != ""
}

// EnterRoad puts the player at the start of road.
func (p *Player) EnterRoad(road string) {
	p.Road = road
	p.Progress = 0
}

// LeaveRoad clears the road and progress together.
func (p *Player) LeaveRoad() {
	p.Road = ""
	p.Progress = 0
}

// Clone returns a copy safe to hand to another goroutine.
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
