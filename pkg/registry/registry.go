// Package registry stores and retrieves immutable spec snapshots keyed
// by (version, variant). Memory keeps snapshots in process; Store
// persists them in SQLite.
package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/version"
)

// ErrSnapshotNotFound is returned when no snapshot exists for the
// requested (version, variant).
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrDuplicateSnapshot is returned by Memory.Put when a snapshot for
// the same (version, variant) is already stored.
var ErrDuplicateSnapshot = errors.New("snapshot already stored")

// Provider resolves a (version, variant) key to a snapshot. This is
// the only capability the engines and renderers require; both Memory
// and Store implement it.
type Provider interface {
	Snapshot(specVersion, variant string) (*model.SpecSnapshot, error)
}

// Memory is an in-process snapshot registry.
type Memory struct {
	mu    sync.RWMutex
	snaps map[model.SnapshotKey]*model.SpecSnapshot
}

// NewMemory creates an empty in-process registry.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[model.SnapshotKey]*model.SpecSnapshot)}
}

// Put stores a snapshot under its key. Storing a key twice is an
// error; snapshots are immutable once registered.
func (m *Memory) Put(snap *model.SpecSnapshot) error {
	key := snap.Key()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.snaps[key]; exists {
		return ErrDuplicateSnapshot
	}
	m.snaps[key] = snap
	return nil
}

// Snapshot returns the snapshot for (version, variant). An empty
// variant means the base variant.
func (m *Memory) Snapshot(specVersion, variant string) (*model.SpecSnapshot, error) {
	if variant == "" {
		variant = model.DefaultVariant
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[model.SnapshotKey{Version: specVersion, Variant: variant}]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// Keys returns all stored keys ordered by semantic version, then
// variant name.
func (m *Memory) Keys() []model.SnapshotKey {
	m.mu.RLock()
	keys := make([]model.SnapshotKey, 0, len(m.snaps))
	for k := range m.snaps {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sortKeys(keys)
	return keys
}

func sortKeys(keys []model.SnapshotKey) {
	sort.Slice(keys, func(i, j int) bool {
		if c := version.CompareStrings(keys[i].Version, keys[j].Version); c != 0 {
			return c < 0
		}
		return keys[i].Variant < keys[j].Variant
	})
}
