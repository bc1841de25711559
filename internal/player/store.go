package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pixil98/go-roads/internal/logging"
)

var (
	ErrFlushInFlight = errors.New("flush already in flight")
)

// Snapshotter reads and fully rewrites the durable player set.
type Snapshotter interface {
	Read() (map[string]*Player, error)
	Write(map[string]*Player) error
}

// Store keeps every known player in memory and writes the whole set back on
// Flush. Records handed out are shared; callers mutate a Clone and Save it.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Player

	file          Snapshotter
	startLocation string

	// generation counts saves; flushed is the generation last written.
	generation uint64
	flushed    uint64

	flushing atomic.Bool
}

func NewStore(file Snapshotter, startLocation string) *Store {
	return &Store{
		records:       map[string]*Player{},
		file:          file,
		startLocation: startLocation,
	}
}

// Load replaces the in-memory set with the durable one. It must run before
// any command is served.
func (s *Store) Load() error {
	records, err := s.file.Read()
	if err != nil {
		return fmt.Errorf("loading players: %w", err)
	}

	for id, p := range records {
		p.Id = id
		if p.Name == "" {
			p.Name = id
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.flushed = s.generation
	return nil
}

// FindOrCreate returns the record for id, creating one at the start
// location on first contact. Creation alone does not mark the store dirty.
func (s *Store) FindOrCreate(id string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		p = &Player{
			Id:       id,
			Name:     id,
			Location: s.startLocation,
		}
		s.records[id] = p
	}

	return p
}

// Get returns the record for id without creating one.
func (s *Store) Get(id string) (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[id]
	return p, ok
}

// Save replaces the record and marks the store dirty.
func (s *Store) Save(p *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[p.Id] = p
	s.generation++
}

// Dirty reports whether a save has not been written out yet.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generation != s.flushed
}

// Flush writes the full set if dirty. Only one flush runs at a time; a
// concurrent call returns ErrFlushInFlight. Saves that land while the write
// is in progress keep the store dirty for the next flush.
func (s *Store) Flush(ctx context.Context) error {
	if !s.flushing.CompareAndSwap(false, true) {
		return ErrFlushInFlight
	}
	defer s.flushing.Store(false)

	s.mu.RLock()
	gen := s.generation
	if gen == s.flushed {
		s.mu.RUnlock()
		return nil
	}
	snapshot := make(map[string]*Player, len(s.records))
	for id, p := range s.records {
		snapshot[id] = p.Clone()
	}
	s.mu.RUnlock()

	if err := s.file.Write(snapshot); err != nil {
		return fmt.Errorf("writing players: %w", err)
	}

	s.mu.Lock()
	if gen > s.flushed {
		s.flushed = gen
	}
	s.mu.Unlock()

	logging.FromContext(ctx).Debugw("players persisted", "count", len(snapshot))
	return nil
}

// Tick flushes on the driver's schedule. Failures are logged and retried on
// the next tick; they never stop the driver.
func (s *Store) Tick(ctx context.Context) error {
	err := s.Flush(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrFlushInFlight):
		logging.FromContext(ctx).Debugw("skipping flush", "reason", err)
	default:
		logging.FromContext(ctx).Warnw("persisting players failed", "error", err)
	}
	return nil
}
