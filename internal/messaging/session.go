package messaging

import (
	"fmt"

	"github.com/google/uuid"
)

// Bus is the subset of NatsServer a Session needs.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
	Publish(subject string, data []byte) error
}

// Session is a session.Handle for one connection. Sends are published on a
// subject unique to the connection and handed to deliver by the bus, so a
// slow socket never holds up the sender.
type Session struct {
	bus         Bus
	subject     string
	unsubscribe func()
}

func NewSession(bus Bus, deliver func(data []byte)) (*Session, error) {
	subject := fmt.Sprintf("session-%s", uuid.NewString())

	unsub, err := bus.Subscribe(subject, deliver)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	return &Session{
		bus:         bus,
		subject:     subject,
		unsubscribe: unsub,
	}, nil
}

func (s *Session) Send(data []byte) error {
	return s.bus.Publish(s.subject, data)
}

// Subject is the bus subject this session receives on.
func (s *Session) Subject() string {
	return s.subject
}

// Close stops delivery.
func (s *Session) Close() {
	s.unsubscribe()
}
