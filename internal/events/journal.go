package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-roads/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "roads.movement"
	DefaultBufferSize = 1024
	DefaultRetryDelay = 5 * time.Second
)

// Publisher sends one encoded event.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// Dialer opens a Publisher bound to an exchange.
type Dialer func(ctx context.Context) (Publisher, error)

// Journal buffers events and publishes them in the background. Record never
// blocks: when the buffer is full the event is dropped and logged.
type Journal struct {
	dial       Dialer
	buf        chan Event
	bufferSize int
	retryDelay time.Duration
}

func NewJournal(dial Dialer, opts ...JournalOpt) *Journal {
	j := &Journal{
		dial:       dial,
		bufferSize: DefaultBufferSize,
		retryDelay: DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(j)
	}
	j.buf = make(chan Event, j.bufferSize)

	return j
}

// Record queues e for publishing. A nil journal discards everything.
func (j *Journal) Record(ctx context.Context, e Event) {
	if j == nil {
		return
	}

	select {
	case j.buf <- e:
	default:
		logging.FromContext(ctx).Warnw("event journal full, dropping event", "identifier", e.Identifier, "kind", e.Kind)
	}
}

// Start publishes queued events until ctx is done. A broken connection is
// redialled after the retry delay; the event that failed is retried on the
// new connection.
func (j *Journal) Start(ctx context.Context) error {
	var pending *Event

	for {
		pub, err := j.dial(ctx)
		if err != nil {
			logging.FromContext(ctx).Warnw("connecting event journal failed", "error", err)
		} else {
			logging.FromContext(ctx).Infow("event journal connected")
			pending, err = j.drain(ctx, pub, pending)
			_ = pub.Close()
			if err == nil {
				return nil
			}
			logging.FromContext(ctx).Warnw("publishing event failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(j.retryDelay):
		}
	}
}

// drain publishes until ctx is done (nil error) or a publish fails, in which
// case the failed event is handed back.
func (j *Journal) drain(ctx context.Context, pub Publisher, pending *Event) (*Event, error) {
	for {
		var e Event
		if pending != nil {
			e = *pending
			pending = nil
		} else {
			select {
			case <-ctx.Done():
				return nil, nil
			case e = <-j.buf:
			}
		}

		body, err := json.Marshal(e)
		if err != nil {
			logging.FromContext(ctx).Errorw("encoding event failed", "error", err)
			continue
		}

		if err := pub.Publish(ctx, e.RoutingKey(), body); err != nil {
			return &e, err
		}
	}
}

// AMQPDialer connects to url and declares a durable topic exchange.
func AMQPDialer(url, exchange string) Dialer {
	return func(ctx context.Context) (Publisher, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("dialing amqp: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("opening amqp channel: %w", err)
		}

		err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("declaring exchange %q: %w", exchange, err)
		}

		return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
	}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}
