// Package energy estimates per-leg energy consumption and reachability for
// an electric vehicle given trip context.
package energy

import "github.com/evnav/evnav/core/model"

// Params holds the tunable constants of the consumption model. Tests and
// deployments override them through the constructor; DefaultParams matches
// the production calibration.
type Params struct {
	BaseKWhPerKm       float64                   `json:"base_kwh_per_km"`
	ACPenaltyFactor    float64                   `json:"ac_penalty_factor"`
	PassengerFactor    float64                   `json:"passenger_factor"`
	TerrainMultipliers map[model.Terrain]float64 `json:"terrain_multipliers"`
	PackCapacityKWh    float64                   `json:"pack_capacity_kwh"`
	SafetyMargin       float64                   `json:"safety_margin"`
}

// DefaultParams returns the standard calibration: 0.2 kWh/km base draw, 15%
// AC penalty, 3% per extra passenger, a 60 kWh pack and a 20% safety buffer.
func DefaultParams() Params {
	return Params{
		BaseKWhPerKm:    0.2,
		ACPenaltyFactor: 0.15,
		PassengerFactor: 0.03,
		TerrainMultipliers: map[model.Terrain]float64{
			model.TerrainFlat:  1.0,
			model.TerrainHilly: 1.2,
			model.TerrainSteep: 1.5,
		},
		PackCapacityKWh: 60,
		SafetyMargin:    0.8,
	}
}

// Model computes energy analyses. It is stateless and safe for concurrent use.
type Model struct {
	params Params
}

// New returns a Model using the given parameters. Zero-valued fields fall
// back to the defaults so partial overrides stay safe.
func New(params Params) *Model {
	def := DefaultParams()
	if params.BaseKWhPerKm <= 0 {
		params.BaseKWhPerKm = def.BaseKWhPerKm
	}
	if params.ACPenaltyFactor <= 0 {
		params.ACPenaltyFactor = def.ACPenaltyFactor
	}
	if params.PassengerFactor <= 0 {
		params.PassengerFactor = def.PassengerFactor
	}
	if len(params.TerrainMultipliers) == 0 {
		params.TerrainMultipliers = def.TerrainMultipliers
	}
	if params.PackCapacityKWh <= 0 {
		params.PackCapacityKWh = def.PackCapacityKWh
	}
	if params.SafetyMargin <= 0 || params.SafetyMargin > 1 {
		params.SafetyMargin = def.SafetyMargin
	}
	return &Model{params: params}
}

// Analyze estimates the energy needed to drive distanceKm under the given
// context and whether the leg fits into the usable battery budget.
func (m *Model) Analyze(distanceKm float64, acOn bool, passengers int, terrain model.Terrain, batteryPct float64) model.EnergyAnalysis {
	base := distanceKm * m.params.BaseKWhPerKm

	var acPenalty float64
	if acOn {
		acPenalty = base * m.params.ACPenaltyFactor
	}

	extra := passengers - 1
	if extra < 0 {
		extra = 0
	}
	passengerPenalty := base * m.params.PassengerFactor * float64(extra)

	mult, ok := m.params.TerrainMultipliers[terrain]
	if !ok {
		mult = 1.0
	}
	terrainPenalty := base * (mult - 1.0)

	total := base + acPenalty + passengerPenalty + terrainPenalty

	available := batteryPct / 100 * m.params.PackCapacityKWh
	usable := available * m.params.SafetyMargin

	efficiency := 0.0
	if usable > 0 {
		efficiency = 1 - total/usable
		if efficiency < 0 {
			efficiency = 0
		}
		if efficiency > 1 {
			efficiency = 1
		}
	}

	return model.EnergyAnalysis{
		BaseKWh:         base,
		ACPenaltyKWh:    acPenalty,
		PassengerKWh:    passengerPenalty,
		TerrainKWh:      terrainPenalty,
		TotalKWh:        total,
		AvailableKWh:    available,
		UsableKWh:       usable,
		Reachable:       total <= usable,
		EfficiencyScore: efficiency,
	}
}
