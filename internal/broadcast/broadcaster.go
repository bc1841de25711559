// Package broadcast pushes position state to every connection sharing a
// visibility room.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-roads/internal/logging"
	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/position"
	"github.com/pixil98/go-roads/internal/session"
)

// Players is read access to the current player records.
type Players interface {
	Get(id string) (*player.Player, bool)
}

// Connections enumerates the live connections.
type Connections interface {
	ForEach(fn func(id string, h session.Handle))
}

type Broadcaster struct {
	world   position.RoadLookup
	players Players
	conns   Connections
}

func NewBroadcaster(world position.RoadLookup, players Players, conns Connections) *Broadcaster {
	return &Broadcaster{
		world:   world,
		players: players,
		conns:   conns,
	}
}

type member struct {
	handle session.Handle
	player *player.Player
}

// Broadcast sends a freshly built state to every connection whose player
// resolves to key. Each payload is relative to its recipient. Delivery is
// fire-and-forget: send failures are logged and do not fail the broadcast.
func (b *Broadcaster) Broadcast(ctx context.Context, key position.Key) error {
	members := b.membersOf(ctx, key)

	here := make([]*player.Player, 0, len(members))
	for _, m := range members {
		here = append(here, m.player)
	}

	for _, m := range members {
		state, err := BuildState(b.world, m.player, here)
		if err != nil {
			return err
		}

		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshalling state for %q: %w", m.player.Id, err)
		}

		if err := m.handle.Send(data); err != nil {
			logging.FromContext(ctx).Warnw("sending state failed", "identifier", m.player.Id, "error", err)
			continue
		}
		logging.FromContext(ctx).Debugw("sent state update", "identifier", m.player.Id, "position", key)
	}

	return nil
}

// membersOf collects the connections at key. A connected player whose record
// cannot be resolved is logged and left out rather than blinding the room.
func (b *Broadcaster) membersOf(ctx context.Context, key position.Key) []member {
	var members []member

	b.conns.ForEach(func(id string, h session.Handle) {
		p, ok := b.players.Get(id)
		if !ok {
			logging.FromContext(ctx).Errorw("connected player has no record", "identifier", id)
			return
		}

		k, err := position.Resolve(b.world, p)
		if err != nil {
			logging.FromContext(ctx).Errorw("resolving position failed", "identifier", id, "error", err)
			return
		}
		if k == key {
			members = append(members, member{handle: h, player: p})
		}
	})

	return members
}
