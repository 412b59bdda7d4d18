// Package routing produces approximate display routes between coordinates.
// Routes are presentation data only; ranking never consumes them.
package routing

import (
	"fmt"

	"github.com/evnav/evnav/core/geo"
	"github.com/evnav/evnav/core/model"
)

// Params holds the planner calibration.
type Params struct {
	// AvgSpeedKmh is the assumed city travel speed for time estimates.
	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
	// MaxWaypoints caps the interpolation density on long routes.
	MaxWaypoints int `json:"max_waypoints"`
}

// DefaultParams returns the production calibration.
func DefaultParams() Params {
	return Params{AvgSpeedKmh: 40, MaxWaypoints: 200}
}

// Route is an interpolated path with display metrics.
type Route struct {
	Waypoints       []model.Coordinate `json:"waypoints"`
	TotalDistanceKm float64            `json:"total_distance_km"`
	EstimatedTime   string             `json:"estimated_time"`
	WaypointCount   int                `json:"waypoint_count"`
	Instructions    []string           `json:"instructions"`
}

// Planner interpolates straight-line routes.
type Planner struct {
	params Params
}

// New returns a Planner, falling back to defaults for zero-valued parameters.
func New(params Params) *Planner {
	def := DefaultParams()
	if params.AvgSpeedKmh <= 0 {
		params.AvgSpeedKmh = def.AvgSpeedKmh
	}
	if params.MaxWaypoints <= 0 {
		params.MaxWaypoints = def.MaxWaypoints
	}
	return &Planner{params: params}
}

// Plan interpolates waypoints between from and to. Waypoint density grows
// with distance, two per kilometer, at least three segments.
func (p *Planner) Plan(from, to model.Coordinate) Route {
	dist := geo.DistanceKm(from, to)
	segments := int(dist * 2)
	if segments < 3 {
		segments = 3
	}
	if segments > p.params.MaxWaypoints {
		segments = p.params.MaxWaypoints
	}

	waypoints := make([]model.Coordinate, 0, segments+1)
	for i := 0; i <= segments; i++ {
		ratio := float64(i) / float64(segments)
		waypoints = append(waypoints, model.Coordinate{
			Lat: from.Lat + (to.Lat-from.Lat)*ratio,
			Lon: from.Lon + (to.Lon-from.Lon)*ratio,
		})
	}

	total := 0.0
	for i := 0; i < len(waypoints)-1; i++ {
		total += geo.DistanceKm(waypoints[i], waypoints[i+1])
	}

	return Route{
		Waypoints:       waypoints,
		TotalDistanceKm: round2(total),
		EstimatedTime:   p.estimate(total),
		WaypointCount:   len(waypoints),
		Instructions:    instructions(len(waypoints)),
	}
}

func (p *Planner) estimate(distanceKm float64) string {
	minutes := int(distanceKm / p.params.AvgSpeedKmh * 60)
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func instructions(waypointCount int) []string {
	if waypointCount < 2 {
		return []string{"No route available"}
	}
	out := []string{"Start from your current location"}
	segments := waypointCount - 1
	if segments <= 3 {
		out = append(out, "Head directly towards the charging station")
	} else {
		quarter := segments / 4
		half := segments / 2
		threeQuarter := 3 * segments / 4
		if quarter > 0 {
			out = append(out, fmt.Sprintf("Continue for %d segments", quarter))
		}
		if half > quarter {
			out = append(out, "Continue straight at the midpoint")
		}
		if threeQuarter > half {
			out = append(out, "You're almost there, continue forward")
		}
	}
	return append(out, "Arrive at the charging station")
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
