package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const minFlushInterval = 100 * time.Millisecond

type Config struct {
	FlushInterval string           `json:"flush_interval"`
	Logging       LoggingConfig    `json:"logging"`
	Storage       StorageConfig    `json:"storage"`
	Players       PlayersConfig    `json:"players"`
	Nats          NatsConfig       `json:"nats"`
	Listeners     []ListenerConfig `json:"listeners"`
	Catalog       CatalogConfig    `json:"catalog"`
	Events        EventsConfig     `json:"events"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.FlushInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing flush_interval: %w", err))
	} else if d < minFlushInterval {
		el.Add(fmt.Errorf("flush_interval must be at least %s", minFlushInterval))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Logging.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Players.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Catalog.validate())
	el.Add(c.Events.validate())

	return el.Err()
}

func (c *Config) flushInterval() time.Duration {
	d, _ := time.ParseDuration(c.FlushInterval)
	return d
}

type PlayersConfig struct {
	StartLocation string `json:"start_location"`
}

func (c *PlayersConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartLocation == "" {
		el.Add(fmt.Errorf("players: start_location is required"))
	}

	return el.Err()
}
