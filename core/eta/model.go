// Package eta estimates travel time under driving-mode, traffic, terrain and
// weather multipliers. The estimate only feeds a scoring sub-factor; it never
// blocks or retries anything.
package eta

import (
	"fmt"

	"github.com/evnav/evnav/core/model"
)

// Params holds the speed calibration of the ETA model.
type Params struct {
	ModeSpeeds  map[model.DrivingMode]float64 `json:"mode_speeds"`
	TrafficMult map[model.Traffic]float64     `json:"traffic_multipliers"`
	TerrainMult map[model.Terrain]float64     `json:"terrain_multipliers"`
	WeatherMult map[model.Weather]float64     `json:"weather_multipliers"`
	MinSpeedKmh float64                       `json:"min_speed_kmh"`
	MaxSpeedKmh float64                       `json:"max_speed_kmh"`
}

// DefaultParams returns the standard speed calibration.
func DefaultParams() Params {
	return Params{
		ModeSpeeds: map[model.DrivingMode]float64{
			model.ModeEconomy: 30,
			model.ModeSports:  60,
			model.ModeRandom:  45,
		},
		TrafficMult: map[model.Traffic]float64{
			model.TrafficHeavy:  0.6,
			model.TrafficMedium: 0.8,
			model.TrafficLight:  1.0,
		},
		TerrainMult: map[model.Terrain]float64{
			model.TerrainFlat:  1.0,
			model.TerrainHilly: 0.8,
			model.TerrainSteep: 0.6,
		},
		WeatherMult: map[model.Weather]float64{
			model.WeatherClear: 1.0,
			model.WeatherRain:  0.9,
			model.WeatherFog:   0.7,
			model.WeatherSnow:  0.5,
		},
		MinSpeedKmh: 5,
		MaxSpeedKmh: 120,
	}
}

// Model computes travel-time estimates. Stateless, safe for concurrent use.
type Model struct {
	params Params
}

// New returns a Model using the given parameters, falling back to defaults
// for zero-valued fields.
func New(params Params) *Model {
	def := DefaultParams()
	if len(params.ModeSpeeds) == 0 {
		params.ModeSpeeds = def.ModeSpeeds
	}
	if len(params.TrafficMult) == 0 {
		params.TrafficMult = def.TrafficMult
	}
	if len(params.TerrainMult) == 0 {
		params.TerrainMult = def.TerrainMult
	}
	if len(params.WeatherMult) == 0 {
		params.WeatherMult = def.WeatherMult
	}
	if params.MinSpeedKmh <= 0 {
		params.MinSpeedKmh = def.MinSpeedKmh
	}
	if params.MaxSpeedKmh <= 0 {
		params.MaxSpeedKmh = def.MaxSpeedKmh
	}
	return &Model{params: params}
}

// Estimate returns the travel-time analysis for distanceKm under the given
// conditions. Unknown tags fall back to neutral multipliers.
func (m *Model) Estimate(distanceKm float64, mode model.DrivingMode, traffic model.Traffic, terrain model.Terrain, weather model.Weather) model.ETAAnalysis {
	base, ok := m.params.ModeSpeeds[mode]
	if !ok {
		base = m.params.ModeSpeeds[model.ModeRandom]
	}
	speed := base * mult(m.params.TrafficMult, traffic) * mult(m.params.TerrainMult, terrain) * mult(m.params.WeatherMult, weather)
	if speed < m.params.MinSpeedKmh {
		speed = m.params.MinSpeedKmh
	}
	if speed > m.params.MaxSpeedKmh {
		speed = m.params.MaxSpeedKmh
	}

	minutes := distanceKm / speed * 60
	return model.ETAAnalysis{
		DistanceKm: distanceKm,
		SpeedKmh:   speed,
		Minutes:    minutes,
		Display:    formatMinutes(minutes),
	}
}

func mult[K comparable](m map[K]float64, k K) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return 1.0
}

// formatMinutes renders a travel time the way the mobile clients expect it.
func formatMinutes(minutes float64) string {
	if minutes < 1 {
		return fmt.Sprintf("%d seconds", int(minutes*60))
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", int(minutes))
	}
	h := int(minutes) / 60
	m := int(minutes) % 60
	if m == 0 {
		if h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
