// Package cities provides a static in-memory city gazetteer for the
// supported service area.
package cities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/core/recommend"
)

// defaultTable covers the major cities of the Nepal service area.
var defaultTable = map[string]model.Coordinate{
	"Kathmandu":     {Lat: 27.7172, Lon: 85.3240},
	"Pokhara":       {Lat: 28.2096, Lon: 83.9856},
	"Butwal":        {Lat: 27.7000, Lon: 83.4500},
	"Biratnagar":    {Lat: 26.4525, Lon: 87.2718},
	"Bharatpur":     {Lat: 27.6780, Lon: 84.4360},
	"Janakpur":      {Lat: 26.7288, Lon: 85.9244},
	"Dharan":        {Lat: 26.8147, Lon: 87.2791},
	"Hetauda":       {Lat: 27.4280, Lon: 85.0440},
	"Nepalgunj":     {Lat: 28.0500, Lon: 81.6167},
	"Birgunj":       {Lat: 27.0170, Lon: 84.8800},
	"Dhangadhi":     {Lat: 28.7000, Lon: 80.6000},
	"Itahari":       {Lat: 26.6650, Lon: 87.2700},
	"Gorkha":        {Lat: 28.0000, Lon: 84.6333},
	"Palpa":         {Lat: 27.8667, Lon: 83.5500},
	"Lumbini":       {Lat: 27.4833, Lon: 83.2833},
	"Chitwan":       {Lat: 27.5291, Lon: 84.3542},
	"Dang":          {Lat: 28.0333, Lon: 82.3000},
	"Kanchanpur":    {Lat: 28.8333, Lon: 80.1667},
	"Mahendranagar": {Lat: 28.9644, Lon: 80.1811},
	"Dadeldhura":    {Lat: 29.3000, Lon: 80.5833},
}

// Lookup resolves destination city names to coordinates. It is immutable
// after construction and safe for concurrent use.
type Lookup struct {
	byKey map[string]model.Coordinate
	names []string
}

var _ recommend.CityLookup = (*Lookup)(nil)

// New returns a Lookup over the default city table.
func New() *Lookup {
	return NewFromTable(nil)
}

// NewFromTable returns a Lookup over the given table merged on top of the
// defaults. Entries with the same name override the default coordinates.
func NewFromTable(extra map[string]model.Coordinate) *Lookup {
	l := &Lookup{byKey: make(map[string]model.Coordinate, len(defaultTable)+len(extra))}
	canonical := make(map[string]string, len(defaultTable)+len(extra))
	for name, coord := range defaultTable {
		l.byKey[strings.ToLower(name)] = coord
		canonical[strings.ToLower(name)] = name
	}
	for name, coord := range extra {
		l.byKey[strings.ToLower(name)] = coord
		canonical[strings.ToLower(name)] = name
	}
	for _, name := range canonical {
		l.names = append(l.names, name)
	}
	sort.Strings(l.names)
	return l
}

// Resolve maps a city name to coordinates. Matching is case-insensitive with
// leading and trailing whitespace ignored; when no exact entry exists, the
// first substring match in sorted name order wins. Unresolvable names return
// recommend.ErrUnknownCity.
func (l *Lookup) Resolve(name string) (model.Coordinate, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return model.Coordinate{}, fmt.Errorf("%w: empty name", recommend.ErrUnknownCity)
	}
	if coord, ok := l.byKey[key]; ok {
		return coord, nil
	}
	for _, candidate := range l.names {
		ck := strings.ToLower(candidate)
		if strings.Contains(ck, key) || strings.Contains(key, ck) {
			return l.byKey[ck], nil
		}
	}
	return model.Coordinate{}, fmt.Errorf("%w: %q", recommend.ErrUnknownCity, name)
}

// Cities lists the supported city names, sorted.
func (l *Lookup) Cities() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
