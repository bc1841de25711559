package command

import (
	"fmt"
	"net/url"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-roads/internal/events"
)

// EventsConfig enables the AMQP movement journal when URL is set.
type EventsConfig struct {
	URL        string `json:"url,omitempty"`
	Exchange   string `json:"exchange,omitempty"`
	BufferSize int    `json:"buffer_size,omitempty"`
}

func (c *EventsConfig) validate() error {
	el := errors.NewErrorList()

	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			el.Add(fmt.Errorf("events: parsing url: %w", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			el.Add(fmt.Errorf("events: url scheme must be amqp or amqps"))
		}
	}
	if c.BufferSize < 0 {
		el.Add(fmt.Errorf("events: buffer_size must not be negative"))
	}

	return el.Err()
}

func (c *EventsConfig) buildJournal() *events.Journal {
	if c.URL == "" {
		return nil
	}

	exchange := c.Exchange
	if exchange == "" {
		exchange = events.DefaultExchange
	}

	var opts []events.JournalOpt
	if c.BufferSize > 0 {
		opts = append(opts, events.WithBufferSize(c.BufferSize))
	}

	return events.NewJournal(events.AMQPDialer(c.URL, exchange), opts...)
}
