package store

import (
	"errors"
	"sync"

	"github.com/iliyamo/seat-allocation/internal/layout"
)

// ErrShowtimeNotFound is returned when no store has been loaded for
// the requested showtime.
var ErrShowtimeNotFound = errors.New("showtime not found")

// Entry bundles a showtime's immutable grid with its allocation store.
// The grid is what clients render; the store is what they mutate.
type Entry struct {
	Grid  *layout.Grid
	Store *Store
}

// Registry maps showtime IDs to their loaded grid and store.  A single
// registry instance is shared by the HTTP layer and the background
// sweeper.
type Registry struct {
	mu      sync.RWMutex
	entries map[uint64]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint64]Entry)}
}

// Put registers (or replaces) the grid and store for a showtime.
func (r *Registry) Put(showtimeID uint64, g *layout.Grid, s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[showtimeID] = Entry{Grid: g, Store: s}
}

// Get returns the entry for a showtime, or ErrShowtimeNotFound.
func (r *Registry) Get(showtimeID uint64) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[showtimeID]
	if !ok {
		return Entry{}, ErrShowtimeNotFound
	}
	return e, nil
}

// All returns a copy of the store map for iteration by the sweeper.
func (r *Registry) All() map[uint64]*Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uint64]*Store, len(r.entries))
	for id, e := range r.entries {
		out[id] = e.Store
	}
	return out
}
