// Package movement applies player commands to player records.
package movement

import (
	"fmt"
	"math"

	"github.com/pixil98/go-roads/internal/commands"
	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/world"
)

// Graph is the read-only world the machine validates against.
type Graph interface {
	Location(id string) (*world.Location, error)
	Road(id string) (*world.Road, error)
}

// Outcome describes what a successful command did.
type Outcome string

const (
	OutcomeEnteredLocation Outcome = "entered_location"
	OutcomeEnteredRoad     Outcome = "entered_road"
	OutcomeMoved           Outcome = "moved"
	OutcomeArrived         Outcome = "arrived"
	OutcomeReturned        Outcome = "returned"
	OutcomeTurnedAround    Outcome = "turned_around"
)

type transitionFunc func(p *player.Player, cmd commands.Command) (Outcome, error)

// Machine validates commands against the world and applies them to a player
// record in place. It holds no state of its own.
type Machine struct {
	world       Graph
	transitions map[commands.Name]transitionFunc
}

func NewMachine(g Graph) *Machine {
	m := &Machine{world: g}
	m.transitions = map[commands.Name]transitionFunc{
		commands.EnterLocation: m.enterLocation,
		commands.EnterRoad:     m.enterRoad,
		commands.Move:          m.move,
		commands.TurnAround:    m.turnAround,
	}
	return m
}

// Apply runs cmd against p. On ErrInvalidTransition p is left untouched. Any
// other error means p references something the world does not contain.
func (m *Machine) Apply(p *player.Player, cmd commands.Command) (Outcome, error) {
	fn, ok := m.transitions[cmd.Name]
	if !ok {
		return "", fmt.Errorf("%w: unknown command %q", ErrInvalidTransition, cmd.Name)
	}
	return fn(p, cmd)
}

func (m *Machine) enterLocation(p *player.Player, cmd commands.Command) (Outcome, error) {
	if p.OnRoad() {
		return "", invalid("cannot enter location %q while on road %q", cmd.Target, p.Road)
	}
	if p.Location == cmd.Target {
		return "", invalid("already at location %q", cmd.Target)
	}

	here, err := m.world.Location(p.Location)
	if err != nil {
		return "", err
	}
	if !here.HasNeighbor(cmd.Target) {
		return "", invalid("location %q is not reachable from %q", cmd.Target, p.Location)
	}

	p.Location = cmd.Target
	return OutcomeEnteredLocation, nil
}

func (m *Machine) enterRoad(p *player.Player, cmd commands.Command) (Outcome, error) {
	if p.OnRoad() {
		return "", invalid("cannot enter road %q while already on road %q", cmd.Target, p.Road)
	}

	road, err := m.world.Road(cmd.Target)
	if err != nil {
		return "", invalid("road %q does not exist", cmd.Target)
	}
	if road.From != p.Location {
		return "", invalid("road %q does not start at %q", cmd.Target, p.Location)
	}

	p.EnterRoad(cmd.Target)
	return OutcomeEnteredRoad, nil
}

// move advances along the current road. Negative distances count as zero so
// a confused client never walks backwards; the command still succeeds.
func (m *Machine) move(p *player.Player, cmd commands.Command) (Outcome, error) {
	if !p.OnRoad() {
		return "", invalid("cannot move while not on a road")
	}
	if math.IsNaN(cmd.Distance) || math.IsInf(cmd.Distance, 0) {
		return "", invalid("distance %v is not a finite number", cmd.Distance)
	}

	road, err := m.world.Road(p.Road)
	if err != nil {
		return "", err
	}

	p.Progress += math.Max(cmd.Distance, 0)
	if p.Progress > road.Distance {
		p.Location = road.To
		p.LeaveRoad()
		return OutcomeArrived, nil
	}

	return OutcomeMoved, nil
}

func (m *Machine) turnAround(p *player.Player, _ commands.Command) (Outcome, error) {
	if !p.OnRoad() {
		return "", invalid("cannot turn around while not on a road")
	}

	road, err := m.world.Road(p.Road)
	if err != nil {
		return "", err
	}
	if road.OneWay() {
		return "", invalid("road %q has no way back", p.Road)
	}

	if p.Progress == 0 {
		p.LeaveRoad()
		return OutcomeReturned, nil
	}

	back, err := m.world.Road(road.Backward)
	if err != nil {
		return "", err
	}

	p.Road = road.Backward
	p.Progress = TurnedProgress(road.Distance, p.Progress, back.Distance)
	return OutcomeTurnedAround, nil
}

// TurnedProgress maps progress along a road of length from onto its backward
// road of length to, keeping the remaining fraction. A result of zero is
// reported as one so turning never counts as instant arrival.
func TurnedProgress(from, progress, to float64) float64 {
	p := math.Floor(to - to*progress/from)
	if p == 0 {
		p = 1
	}
	return p
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}
