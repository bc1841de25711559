// Package driver runs periodic background work on a fixed tick.
package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Ticker is work run once per tick. An error stops the driver.
type Ticker interface {
	Tick(context.Context) error
}

type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks until ctx is done, then runs one last tick so pending work
// such as unflushed player records is not lost on shutdown.
func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return d.Tick(context.WithoutCancel(ctx))
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
