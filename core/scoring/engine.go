package scoring

import (
	"fmt"
	"math"

	"github.com/evnav/evnav/core/model"
)

// Params holds the scoring calibration. Hoisted here so tests can override
// the numeric domain without touching the logic.
type Params struct {
	MaxDistanceKm    float64 `json:"max_distance_km"`
	PriceMin         float64 `json:"price_min"`
	PriceMax         float64 `json:"price_max"`
	ETAWindowMinutes float64 `json:"eta_window_minutes"`
	ETAWeight        float64 `json:"eta_weight"`
	RouteBonusWeight float64 `json:"route_bonus_weight"`
	IncompatiblePlug float64 `json:"incompatible_plug_score"`
}

// DefaultParams returns the production calibration: a 50 km distance horizon,
// a 10-35 price domain, a two hour ETA window and flat 10% ETA and route
// bonus contributions.
func DefaultParams() Params {
	return Params{
		MaxDistanceKm:    50,
		PriceMin:         10,
		PriceMax:         35,
		ETAWindowMinutes: 120,
		ETAWeight:        0.10,
		RouteBonusWeight: 0.10,
		IncompatiblePlug: 0.3,
	}
}

// urgencyBase is the starting urgency sub-score per tier.
var urgencyBase = map[model.Urgency]float64{
	model.UrgencyLow:       0.3,
	model.UrgencyMedium:    0.6,
	model.UrgencyHigh:      0.8,
	model.UrgencyEmergency: 1.0,
}

// reachabilityTier adjusts the energy-efficiency sub-score by battery level:
// the lower the battery, the harder unreachable stations are penalized and
// the more reachable ones are boosted.
type reachabilityTier struct {
	maxPct           float64
	unreachableScale float64
	unreachableZero  bool
	reachableBoost   float64
}

var reachabilityTiers = []reachabilityTier{
	{maxPct: 20, unreachableZero: true, reachableBoost: 2.0},
	{maxPct: 40, unreachableScale: 0.2, reachableBoost: 1.5},
	{maxPct: 60, unreachableScale: 0.5, reachableBoost: 1.2},
	{maxPct: 100, unreachableZero: true, reachableBoost: 1.0},
}

// Engine combines station attributes and derived analyses into a composite
// score using the context-dependent weight vector.
type Engine struct {
	params Params
}

// NewEngine returns an Engine, falling back to defaults for zero-valued
// parameters.
func NewEngine(params Params) *Engine {
	def := DefaultParams()
	if params.MaxDistanceKm <= 0 {
		params.MaxDistanceKm = def.MaxDistanceKm
	}
	if params.PriceMax <= params.PriceMin {
		params.PriceMin = def.PriceMin
		params.PriceMax = def.PriceMax
	}
	if params.ETAWindowMinutes <= 0 {
		params.ETAWindowMinutes = def.ETAWindowMinutes
	}
	if params.ETAWeight <= 0 {
		params.ETAWeight = def.ETAWeight
	}
	if params.RouteBonusWeight <= 0 {
		params.RouteBonusWeight = def.RouteBonusWeight
	}
	if params.IncompatiblePlug <= 0 {
		params.IncompatiblePlug = def.IncompatiblePlug
	}
	return &Engine{params: params}
}

// Score computes the composite score for a station. The RouteAnalysis is nil
// when no destination filtering was applied. The returned breakdown carries
// rounded sub-scores for presentation and the exact weight vector used.
func (e *Engine) Score(station model.Station, distanceKm float64, ea model.EnergyAnalysis, eta model.ETAAnalysis, ra *model.RouteAnalysis, ctx model.UserContext) (model.ScoreBreakdown, error) {
	if err := station.Validate(); err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("score station: %w", err)
	}

	distanceScore := clamp01(1 - distanceKm/e.params.MaxDistanceKm)

	totalSlots := station.TotalSlots
	if totalSlots < 1 {
		totalSlots = 1
	}
	availabilityScore := float64(station.AvailableSlots) / float64(totalSlots)

	energyScore := e.adjustEnergyScore(ea, ctx.BatteryPct)
	urgencyScore := e.urgencyScore(ctx.Urgency, distanceKm, station.Rating)

	priceScore := clamp01(1 - (station.PricePerKWh-e.params.PriceMin)/(e.params.PriceMax-e.params.PriceMin))

	plugScore := 1.0
	if ctx.PlugType != "" && !station.SupportsPlug(ctx.PlugType) {
		plugScore = e.params.IncompatiblePlug
	}

	ratingScore := station.Rating / 5

	etaScore := clamp01(1 - eta.Minutes/e.params.ETAWindowMinutes)

	w := SelectWeights(ctx.Urgency, ctx.BatteryPct)
	total := w.Distance*distanceScore +
		w.Availability*availabilityScore +
		w.EnergyEfficiency*energyScore +
		w.Urgency*urgencyScore +
		w.Price*priceScore +
		w.PlugCompat*plugScore +
		w.Rating*ratingScore +
		e.params.ETAWeight*etaScore

	routeBonus := 0.0
	if ra != nil && ra.AlongRoute {
		routeBonus = ra.RouteEfficiency * e.params.RouteBonusWeight
		total += routeBonus
	}
	total = clamp01(total)

	return model.ScoreBreakdown{
		Distance:         round3(distanceScore),
		Availability:     round3(availabilityScore),
		EnergyEfficiency: round3(energyScore),
		Urgency:          round3(urgencyScore),
		Price:            round3(priceScore),
		PlugCompat:       round3(plugScore),
		Rating:           round3(ratingScore),
		ETA:              round3(etaScore),
		RouteBonus:       round3(routeBonus),
		Total:            total,
		Weights:          w,
	}, nil
}

// adjustEnergyScore applies the battery-tier reachability adjustment to the
// raw efficiency score from the energy model.
func (e *Engine) adjustEnergyScore(ea model.EnergyAnalysis, batteryPct float64) float64 {
	for _, tier := range reachabilityTiers {
		if batteryPct > tier.maxPct {
			continue
		}
		if !ea.Reachable {
			if tier.unreachableZero {
				return 0
			}
			return ea.EfficiencyScore * tier.unreachableScale
		}
		return math.Min(1, ea.EfficiencyScore*tier.reachableBoost)
	}
	if !ea.Reachable {
		return 0
	}
	return ea.EfficiencyScore
}

func (e *Engine) urgencyScore(u model.Urgency, distanceKm, rating float64) float64 {
	score, ok := urgencyBase[u]
	if !ok {
		score = urgencyBase[model.UrgencyMedium]
	}
	switch u {
	case model.UrgencyEmergency:
		if distanceKm <= 5 {
			score += 0.3
		} else if distanceKm <= 15 {
			score += 0.2
		}
	case model.UrgencyHigh:
		if distanceKm <= 10 {
			score += 0.2
		} else if distanceKm <= 25 {
			score += 0.1
		}
	case model.UrgencyLow:
		if rating >= 4.0 {
			score += 0.1
		}
	}
	return math.Min(1, score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
