package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evnav/evnav/core/geo"
	"github.com/evnav/evnav/core/model"
)

var (
	thamel = model.Coordinate{Lat: 27.7152, Lon: 85.3123}
	patan  = model.Coordinate{Lat: 27.6766, Lon: 85.3188}
)

func TestPlan_ShortRouteHasMinimumSegments(t *testing.T) {
	p := New(Params{})
	r := p.Plan(thamel, patan)

	// ~4.3 km gives int(4.3*2)=8 segments, 9 waypoints.
	assert.Equal(t, 9, r.WaypointCount)
	assert.Equal(t, r.Waypoints[0], thamel)
	assert.Equal(t, r.Waypoints[len(r.Waypoints)-1], patan)
}

func TestPlan_TinyRouteFloorsAtThreeSegments(t *testing.T) {
	p := New(Params{})
	near := model.Coordinate{Lat: thamel.Lat + 0.001, Lon: thamel.Lon}
	r := p.Plan(thamel, near)
	assert.Equal(t, 4, r.WaypointCount)
}

func TestPlan_DistanceMatchesDirect(t *testing.T) {
	p := New(Params{})
	r := p.Plan(thamel, patan)
	direct := geo.DistanceKm(thamel, patan)
	assert.InDelta(t, direct, r.TotalDistanceKm, 0.05)
}

func TestPlan_WaypointCapOnLongRoutes(t *testing.T) {
	p := New(Params{MaxWaypoints: 50})
	pokhara := model.Coordinate{Lat: 28.2096, Lon: 83.9856}
	r := p.Plan(thamel, pokhara)
	assert.Equal(t, 51, r.WaypointCount)
}

func TestPlan_TimeEstimate(t *testing.T) {
	p := New(Params{AvgSpeedKmh: 40})

	r := p.Plan(thamel, patan)
	assert.Equal(t, "6 minutes", r.EstimatedTime)

	pokhara := model.Coordinate{Lat: 28.2096, Lon: 83.9856}
	long := p.Plan(thamel, pokhara)
	assert.Contains(t, long.EstimatedTime, "h ")
}

func TestPlan_Instructions(t *testing.T) {
	p := New(Params{})

	short := p.Plan(thamel, model.Coordinate{Lat: thamel.Lat + 0.001, Lon: thamel.Lon})
	require.Len(t, short.Instructions, 3)
	assert.Equal(t, "Head directly towards the charging station", short.Instructions[1])

	long := p.Plan(thamel, patan)
	assert.Equal(t, "Start from your current location", long.Instructions[0])
	assert.Equal(t, "Arrive at the charging station", long.Instructions[len(long.Instructions)-1])
	assert.Contains(t, long.Instructions, "Continue straight at the midpoint")
}
