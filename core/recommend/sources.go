package recommend

import (
	"context"
	"errors"

	"github.com/evnav/evnav/core/model"
)

// ErrUnknownCity is returned by CityLookup implementations when a destination
// name cannot be resolved. The orchestrator degrades to unfiltered ranking
// and surfaces the name in the result metadata.
var ErrUnknownCity = errors.New("unknown destination city")

// StationSource provides the candidate stations for a run. Implementations
// own freshness; the engine treats the returned slice as a read-only snapshot.
type StationSource interface {
	Stations(ctx context.Context) ([]model.Station, error)
}

// CityLookup resolves a destination city name to coordinates.
type CityLookup interface {
	Resolve(name string) (model.Coordinate, error)
	// Cities lists the supported city names, sorted.
	Cities() []string
}
