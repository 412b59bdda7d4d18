// Package scoring derives context-dependent importance weights and combines
// per-factor sub-scores into one composite station score.
package scoring

import (
	"gonum.org/v1/gonum/floats"

	"github.com/evnav/evnav/core/model"
)

// Factor identifies one of the seven weighted scoring factors.
type Factor string

const (
	FactorDistance         Factor = "distance"
	FactorAvailability     Factor = "availability"
	FactorEnergyEfficiency Factor = "energy_efficiency"
	FactorUrgency          Factor = "urgency"
	FactorPrice            Factor = "price"
	FactorPlugCompat       Factor = "plug_compatibility"
	FactorRating           Factor = "rating"
)

// factorOrder fixes the iteration order so normalization and conversion are
// deterministic.
var factorOrder = []Factor{
	FactorDistance, FactorAvailability, FactorEnergyEfficiency,
	FactorUrgency, FactorPrice, FactorPlugCompat, FactorRating,
}

// baseWeights is the vector used when no urgency tier overrides it.
var baseWeights = map[Factor]float64{
	FactorDistance:         0.25,
	FactorAvailability:     0.20,
	FactorEnergyEfficiency: 0.15,
	FactorUrgency:          0.15,
	FactorPrice:            0.10,
	FactorPlugCompat:       0.10,
	FactorRating:           0.05,
}

// tierWeights replaces the whole vector per urgency tier. Emergency ignores
// price, plug type and rating entirely; low urgency favors them.
var tierWeights = map[model.Urgency]map[Factor]float64{
	model.UrgencyEmergency: {
		FactorDistance:         0.40,
		FactorAvailability:     0.30,
		FactorEnergyEfficiency: 0.20,
		FactorUrgency:          0.10,
		FactorPrice:            0.00,
		FactorPlugCompat:       0.00,
		FactorRating:           0.00,
	},
	model.UrgencyHigh: {
		FactorDistance:         0.35,
		FactorAvailability:     0.25,
		FactorEnergyEfficiency: 0.20,
		FactorUrgency:          0.15,
		FactorPrice:            0.05,
		FactorPlugCompat:       0.00,
		FactorRating:           0.00,
	},
	model.UrgencyMedium: {
		FactorDistance:         0.25,
		FactorAvailability:     0.20,
		FactorEnergyEfficiency: 0.15,
		FactorUrgency:          0.15,
		FactorPrice:            0.10,
		FactorPlugCompat:       0.10,
		FactorRating:           0.05,
	},
	model.UrgencyLow: {
		FactorDistance:         0.20,
		FactorAvailability:     0.15,
		FactorEnergyEfficiency: 0.10,
		FactorUrgency:          0.05,
		FactorPrice:            0.20,
		FactorPlugCompat:       0.15,
		FactorRating:           0.15,
	},
}

// adjustment scales one factor's weight, bounded by an optional cap or floor.
type adjustment struct {
	factor Factor
	scale  float64
	cap    float64 // upper bound after scaling, 0 means none
	floor  float64 // lower bound after scaling, 0 means none
}

// batteryRule applies its adjustments when the battery percentage falls in
// the rule's band. Rules are evaluated in order; the first match wins.
type batteryRule struct {
	maxPct      float64 // matches when battery <= maxPct (0 disables)
	minPct      float64 // matches when battery >= minPct (0 disables)
	adjustments []adjustment
}

func (r batteryRule) matches(pct float64) bool {
	if r.maxPct > 0 {
		return pct <= r.maxPct
	}
	return r.minPct > 0 && pct >= r.minPct
}

// batteryRules reweights the tier vector by battery level: a draining pack
// shifts importance toward energy efficiency and distance, a full one toward
// price and rating.
var batteryRules = []batteryRule{
	{maxPct: 20, adjustments: []adjustment{
		{factor: FactorEnergyEfficiency, scale: 1.5, cap: 0.35},
		{factor: FactorDistance, scale: 1.3, cap: 0.35},
		{factor: FactorPrice, scale: 0.5, floor: 0.05},
		{factor: FactorRating, scale: 0.5, floor: 0.02},
	}},
	{maxPct: 40, adjustments: []adjustment{
		{factor: FactorEnergyEfficiency, scale: 1.3, cap: 0.30},
		{factor: FactorDistance, scale: 1.2, cap: 0.30},
		{factor: FactorPrice, scale: 0.7, floor: 0.05},
	}},
	{minPct: 80, adjustments: []adjustment{
		{factor: FactorPrice, scale: 1.3, cap: 0.15},
		{factor: FactorRating, scale: 1.5, cap: 0.08},
		{factor: FactorEnergyEfficiency, scale: 0.8, floor: 0.08},
	}},
}

// SelectWeights derives the normalized weight vector for the given urgency
// tier and battery level. The returned vector always sums to 1.0.
func SelectWeights(urgency model.Urgency, batteryPct float64) model.WeightVector {
	src, ok := tierWeights[urgency]
	if !ok {
		src = baseWeights
	}
	w := make(map[Factor]float64, len(src))
	for f, v := range src {
		w[f] = v
	}

	for _, rule := range batteryRules {
		if !rule.matches(batteryPct) {
			continue
		}
		for _, a := range rule.adjustments {
			v := w[a.factor] * a.scale
			if a.cap > 0 && v > a.cap {
				v = a.cap
			}
			if a.floor > 0 && v < a.floor {
				v = a.floor
			}
			w[a.factor] = v
		}
		break
	}

	vals := make([]float64, len(factorOrder))
	for i, f := range factorOrder {
		vals[i] = w[f]
	}
	sum := floats.Sum(vals)
	if sum <= 0 {
		// Cannot happen with positive inputs, guarded anyway.
		w = baseWeights
	} else {
		for f, v := range w {
			w[f] = v / sum
		}
	}

	return model.WeightVector{
		Distance:         w[FactorDistance],
		Availability:     w[FactorAvailability],
		EnergyEfficiency: w[FactorEnergyEfficiency],
		Urgency:          w[FactorUrgency],
		Price:            w[FactorPrice],
		PlugCompat:       w[FactorPlugCompat],
		Rating:           w[FactorRating],
	}
}
