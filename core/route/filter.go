// Package route decides whether a candidate station lies along the path
// toward a destination, with urgency-adaptive tolerances.
package route

import (
	"github.com/evnav/evnav/core/geo"
	"github.com/evnav/evnav/core/model"
)

// BaseAngleLimitDeg is the directional tolerance at medium urgency.
const BaseAngleLimitDeg = 90.0

// EmergencyRadiusKm forces admission of any station this close to the origin
// when urgency is emergency, regardless of detour or direction.
const EmergencyRadiusKm = 50.0

// detourMult widens or narrows the detour budget per urgency tier.
var detourMult = map[model.Urgency]float64{
	model.UrgencyLow:       0.8,
	model.UrgencyMedium:    1.0,
	model.UrgencyHigh:      1.5,
	model.UrgencyEmergency: 2.0,
}

// angleMult widens or narrows the directional tolerance per urgency tier.
var angleMult = map[model.Urgency]float64{
	model.UrgencyLow:       0.8,
	model.UrgencyMedium:    1.0,
	model.UrgencyHigh:      1.2,
	model.UrgencyEmergency: 1.5,
}

// Analyze determines whether the station is along the origin-destination
// path. maxDetourKm is the caller's base budget before the urgency multiplier.
func Analyze(origin, dest, station model.Coordinate, maxDetourKm float64, urgency model.Urgency) model.RouteAnalysis {
	direct := geo.DistanceKm(origin, dest)
	toStation := geo.DistanceKm(origin, station)
	stationToDest := geo.DistanceKm(station, dest)
	via := toStation + stationToDest
	detour := via - direct

	angleDiff := geo.AngleDiffDeg(geo.BearingDeg(origin, dest), geo.BearingDeg(origin, station))

	budget := maxDetourKm * multOrOne(detourMult, urgency)
	angleLimit := BaseAngleLimitDeg * multOrOne(angleMult, urgency)

	along := detour <= budget && angleDiff <= angleLimit
	if urgency == model.UrgencyEmergency && toStation <= EmergencyRadiusKm {
		// Survival trumps route efficiency.
		along = true
	}

	efficiency := 0.0
	if via > 0 {
		efficiency = direct / via
	}

	return model.RouteAnalysis{
		DirectKm:        direct,
		ViaStationKm:    via,
		DetourKm:        detour,
		ToStationKm:     toStation,
		StationToDestKm: stationToDest,
		AngleDiffDeg:    angleDiff,
		AlongRoute:      along,
		RouteEfficiency: efficiency,
	}
}

func multOrOne(m map[model.Urgency]float64, u model.Urgency) float64 {
	if v, ok := m[u]; ok {
		return v
	}
	return 1.0
}
