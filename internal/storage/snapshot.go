package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// SnapshotFile persists a whole keyed set as one ordered JSON array of
// assets. Every write replaces the file in full; the last write wins.
type SnapshotFile[T ValidatingSpec] struct {
	path string
}

func NewSnapshotFile[T ValidatingSpec](path string) *SnapshotFile[T] {
	return &SnapshotFile[T]{path: path}
}

func (f *SnapshotFile[T]) Path() string {
	return f.path
}

// Read returns the records in the file. A missing file is an empty set.
func (f *SnapshotFile[T]) Read() (map[string]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var assets []*Asset[T]
	err = json.Unmarshal(data, &assets)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}

	records := make(map[string]T, len(assets))
	for i, a := range assets {
		if a == nil || a.Identifier == "" {
			return nil, fmt.Errorf("record %d: id must be set", i)
		}
		if isNil(a.Spec) {
			return nil, fmt.Errorf("record %q: spec must be set", a.Identifier)
		}
		if err := a.Spec.Validate(); err != nil {
			return nil, fmt.Errorf("record %q: %w", a.Identifier, err)
		}
		if _, ok := records[a.Identifier]; ok {
			return nil, fmt.Errorf("duplicate key detected: %s", a.Identifier)
		}
		records[a.Identifier] = a.Spec
	}

	return records, nil
}

// Write replaces the file with records ordered by id.
func (f *SnapshotFile[T]) Write(records map[string]T) error {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	assets := make([]*Asset[T], 0, len(ids))
	for _, id := range ids {
		assets = append(assets, NewAsset(id, records[id]))
	}

	jsonData, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	return atomicWrite(f.path, jsonData, 0644)
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			zap.S().Warnw("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
