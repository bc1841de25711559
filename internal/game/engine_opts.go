package game

import "time"

type EngineOpt func(*Engine)

// WithJournal records every connect, disconnect and applied command.
func WithJournal(j Journal) EngineOpt {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithClock overrides the time source used to stamp journal events.
func WithClock(now func() time.Time) EngineOpt {
	return func(e *Engine) {
		e.now = now
	}
}
