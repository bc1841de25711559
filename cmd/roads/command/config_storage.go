package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-roads/internal/player"
	"github.com/pixil98/go-roads/internal/storage"
	"github.com/pixil98/go-roads/internal/world"
)

type StorageConfig struct {
	Locations AssetConfig[*world.Location] `json:"locations"`
	Roads     AssetConfig[*world.Road]     `json:"roads"`
	Players   SnapshotConfig               `json:"players"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Locations.Validate("locations"))
	el.Add(c.Roads.Validate("roads"))
	el.Add(c.Players.Validate("players"))
	return el.Err()
}

func (c *StorageConfig) BuildWorld() (*world.Graph, error) {
	locations, err := c.Locations.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating location store: %w", err)
	}
	roads, err := c.Roads.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating road store: %w", err)
	}

	g, err := world.NewGraph(locations, roads)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	return g, nil
}

// BuildPlayerStore loads the durable player set.
func (c *StorageConfig) BuildPlayerStore(startLocation string) (*player.Store, error) {
	s := player.NewStore(storage.NewSnapshotFile[*player.Player](c.Players.Path), startLocation)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

// SnapshotConfig points at a single file rewritten in full on every flush.
// It is created on the first flush.
type SnapshotConfig struct {
	Path string `json:"path"`
}

func (c *SnapshotConfig) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	if info, err := os.Stat(c.Path); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %q is a directory", name, c.Path)
	}

	return nil
}
