// Package stations implements an in-memory station registry. It serves
// read-only snapshots to the recommendation pipeline and absorbs live
// availability updates from the broker feed.
package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/core/recommend"
)

// Registry holds the current station fleet. All methods are safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	stations map[string]model.Station
}

var _ recommend.StationSource = (*Registry)(nil)

// New builds a Registry from the seed fleet. Every station must validate and
// IDs must be unique.
func New(seed []model.Station) (*Registry, error) {
	r := &Registry{stations: make(map[string]model.Station, len(seed))}
	for _, st := range seed {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("seed station: %w", err)
		}
		if _, dup := r.stations[st.ID]; dup {
			return nil, fmt.Errorf("seed station: duplicate id %s", st.ID)
		}
		r.stations[st.ID] = st
	}
	return r, nil
}

// NewFromFile builds a Registry from a JSON file holding an array of
// stations.
func NewFromFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}
	var seed []model.Station
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse stations file %s: %w", path, err)
	}
	return New(seed)
}

// Stations returns a snapshot of the fleet sorted by ID. The caller owns the
// returned slice.
func (r *Registry) Stations(context.Context) ([]model.Station, error) {
	r.mu.RLock()
	out := make([]model.Station, 0, len(r.stations))
	for _, st := range r.stations {
		out = append(out, st)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the station with the given ID.
func (r *Registry) Get(id string) (model.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stations[id]
	return st, ok
}

// Len reports the fleet size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stations)
}

// Upsert inserts or replaces a station.
func (r *Registry) Upsert(st model.Station) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("upsert station: %w", err)
	}
	r.mu.Lock()
	r.stations[st.ID] = st
	r.mu.Unlock()
	return nil
}

// ApplyAvailability patches the available slot count of one station. Counts
// are clamped to [0, total].
func (r *Registry) ApplyAvailability(id string, available int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[id]
	if !ok {
		return fmt.Errorf("availability update: unknown station %s", id)
	}
	if available < 0 {
		available = 0
	}
	if available > st.TotalSlots {
		available = st.TotalSlots
	}
	st.AvailableSlots = available
	r.stations[id] = st
	return nil
}
