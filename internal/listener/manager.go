// Package listener accepts client connections over websocket, telnet and ssh
// and feeds their events into the game engine.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pixil98/go-roads/internal/broadcast"
	"github.com/pixil98/go-roads/internal/commands"
	"github.com/pixil98/go-roads/internal/display"
	"github.com/pixil98/go-roads/internal/logging"
	"github.com/pixil98/go-roads/internal/messaging"
	"github.com/pixil98/go-roads/internal/session"
)

const outboxSize = 64

// Engine receives the three connection events.
type Engine interface {
	Connect(ctx context.Context, id string, h session.Handle) error
	Disconnect(ctx context.Context, id string, h session.Handle) error
	Exec(ctx context.Context, id string, cmd commands.Command) error
}

type ConnectionManager struct {
	engine   Engine
	bus      messaging.Bus
	renderer *display.Renderer
}

func NewConnectionManager(engine Engine, bus messaging.Bus, renderer *display.Renderer) *ConnectionManager {
	return &ConnectionManager{
		engine:   engine,
		bus:      bus,
		renderer: renderer,
	}
}

// attach opens a bus session delivering into out and connects id with it.
func (m *ConnectionManager) attach(ctx context.Context, id string, out *outbox) (*messaging.Session, error) {
	sess, err := messaging.NewSession(m.bus, func(data []byte) { out.push(ctx, data) })
	if err != nil {
		return nil, err
	}

	if err := m.engine.Connect(ctx, id, sess); err != nil {
		m.detach(ctx, id, sess)
		return nil, err
	}

	return sess, nil
}

func (m *ConnectionManager) detach(ctx context.Context, id string, sess *messaging.Session) {
	if err := m.engine.Disconnect(ctx, id, sess); err != nil {
		logging.FromContext(ctx).Errorw("disconnecting player", "error", err)
	}
	sess.Close()
}

// rejection is the message sent before closing a connection whose
// handshake failed.
func rejection(err error) string {
	switch {
	case errors.Is(err, session.ErrAlreadyConnected):
		return "already connected"
	case errors.Is(err, session.ErrInvalidIdentifier):
		return "identifier required"
	default:
		return "internal error"
	}
}

// render turns a state push into text for line clients.
func (m *ConnectionManager) render(id string, data []byte) (string, error) {
	var s broadcast.State
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("decoding state: %w", err)
	}
	return m.renderer.Render(id, s)
}

// outbox queues payloads for one connection's writer. Pushes never block;
// when the writer falls behind payloads are dropped.
type outbox struct {
	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newOutbox() *outbox {
	return &outbox{
		ch:   make(chan []byte, outboxSize),
		done: make(chan struct{}),
	}
}

func (o *outbox) push(ctx context.Context, data []byte) {
	select {
	case <-o.done:
	case o.ch <- data:
	default:
		logging.FromContext(ctx).Warnw("outbound queue full, dropping state")
	}
}

func (o *outbox) close() {
	o.closeOnce.Do(func() { close(o.done) })
}
