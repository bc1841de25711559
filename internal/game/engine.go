// Package game ties the world, player records and live connections together.
// Every state change goes through the Engine.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-roads/internal/broadcast"
	"github.com/pixil98/go-roads/internal/commands"
	"github.com/pixil98/go-roads/internal/events"
	"github.com/pixil98/go-roads/internal/logging"
	"github.com/pixil98/go-roads/internal/movement"
	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/position"
	"github.com/pixil98/go-roads/internal/session"
	"github.com/pixil98/go-roads/internal/world"
)

// Journal records player activity. Implementations must not block.
type Journal interface {
	Record(ctx context.Context, e events.Event)
}

// Engine serializes connects, commands and disconnects so that each one
// observes and broadcasts a consistent world.
type Engine struct {
	mu sync.Mutex

	world       *world.Graph
	players     *player.Store
	conns       *session.Registry
	machine     *movement.Machine
	broadcaster *broadcast.Broadcaster
	journal     Journal

	now func() time.Time
}

func NewEngine(g *world.Graph, players *player.Store, conns *session.Registry, opts ...EngineOpt) *Engine {
	e := &Engine{
		world:       g,
		players:     players,
		conns:       conns,
		machine:     movement.NewMachine(g),
		broadcaster: broadcast.NewBroadcaster(g, players, conns),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Connect registers h as the connection for id, creating the player at the
// start location on first contact, and tells everyone at the player's
// position. A second connection for a live id fails with
// session.ErrAlreadyConnected and leaves the first untouched.
func (e *Engine) Connect(ctx context.Context, id string, h session.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.conns.Register(id, h); err != nil {
		return err
	}

	p := e.players.FindOrCreate(id)
	key, err := position.Resolve(e.world, p)
	if err != nil {
		e.conns.Unregister(id, h)
		return fmt.Errorf("resolving position of %q: %w", id, err)
	}

	logging.FromContext(ctx).Infow("player connected", "identifier", id, "position", key)
	e.record(ctx, p, events.KindConnected, "", "", key)

	return e.broadcaster.Broadcast(ctx, key)
}

// Disconnect removes h if it is still the live connection for id and tells
// the players left behind. Stale handles are ignored.
func (e *Engine) Disconnect(ctx context.Context, id string, h session.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.conns.Unregister(id, h) {
		return nil
	}

	p, ok := e.players.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, id)
	}

	key, err := position.Resolve(e.world, p)
	if err != nil {
		return fmt.Errorf("resolving position of %q: %w", id, err)
	}

	logging.FromContext(ctx).Infow("player disconnected", "identifier", id, "position", key)
	e.record(ctx, p, events.KindDisconnected, "", key, "")

	return e.broadcaster.Broadcast(ctx, key)
}

// Exec applies cmd for the connected player id. Commands the world does not
// allow are logged and ignored. On success the player's new position is
// broadcast, followed by the old one if it changed. Any returned error means
// the player's record is inconsistent with the world.
func (e *Engine) Exec(ctx context.Context, id string, cmd commands.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.conns.Has(id) {
		return fmt.Errorf("%w: %q", ErrNotConnected, id)
	}

	current, ok := e.players.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, id)
	}

	before, err := position.Resolve(e.world, current)
	if err != nil {
		return fmt.Errorf("resolving position of %q: %w", id, err)
	}

	next := current.Clone()
	outcome, err := e.machine.Apply(next, cmd)
	if errors.Is(err, movement.ErrInvalidTransition) {
		logging.FromContext(ctx).Infow("ignoring command", "identifier", id, "command", cmd.String(), "reason", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("applying %s for %q: %w", cmd, id, err)
	}

	after, err := position.Resolve(e.world, next)
	if err != nil {
		return fmt.Errorf("resolving position of %q: %w", id, err)
	}

	e.players.Save(next)

	logging.FromContext(ctx).Debugw("command applied",
		"identifier", id,
		"command", cmd.String(),
		"outcome", outcome,
		"position", after,
	)
	e.record(ctx, next, events.Kind(outcome), cmd.String(), before, after)

	if err := e.broadcaster.Broadcast(ctx, after); err != nil {
		return err
	}
	if before != after {
		return e.broadcaster.Broadcast(ctx, before)
	}
	return nil
}

// Connected reports whether id currently has a live connection.
func (e *Engine) Connected(id string) bool {
	return e.conns.Has(id)
}

func (e *Engine) record(ctx context.Context, p *player.Player, kind events.Kind, cmd string, from, to position.Key) {
	if e.journal == nil {
		return
	}

	e.journal.Record(ctx, events.Event{
		Identifier: p.Id,
		Kind:       kind,
		Command:    cmd,
		From:       from,
		To:         to,
		Location:   p.Location,
		Road:       p.Road,
		Progress:   p.Progress,
		At:         e.now(),
	})
}
