package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evnav/evnav/core/energy"
	"github.com/evnav/evnav/core/eta"
	"github.com/evnav/evnav/core/model"
)

func testStation() model.Station {
	return model.Station{
		ID:             "st-1",
		Name:           "Thamel Charging Hub",
		Location:       model.Coordinate{Lat: 27.72, Lon: 85.33},
		AvailableSlots: 3,
		TotalSlots:     4,
		PlugTypes:      []string{"CCS2", "Type2"},
		PricePerKWh:    18,
		Rating:         4.2,
	}
}

func testContext() model.UserContext {
	return model.UserContext{
		Origin:     model.Coordinate{Lat: 27.7172, Lon: 85.3240},
		BatteryPct: 80,
		Urgency:    model.UrgencyMedium,
		Passengers: 1,
		Terrain:    model.TerrainFlat,
	}.Normalize()
}

func scoreFor(t *testing.T, e *Engine, st model.Station, distKm float64, ctx model.UserContext, ra *model.RouteAnalysis) model.ScoreBreakdown {
	t.Helper()
	em := energy.New(energy.Params{})
	ea := em.Analyze(distKm, ctx.ACOn, ctx.Passengers, ctx.Terrain, ctx.BatteryPct)
	et := eta.New(eta.Params{}).Estimate(distKm, ctx.DrivingMode, ctx.Traffic, ctx.Terrain, ctx.Weather)
	bd, err := e.Score(st, distKm, ea, et, ra, ctx)
	require.NoError(t, err)
	return bd
}

func TestScore_AllSubScoresInUnitInterval(t *testing.T) {
	e := NewEngine(Params{})
	for _, u := range allTiers {
		for _, pct := range []float64{1, 15, 35, 55, 75, 100} {
			for _, d := range []float64{0.5, 5, 20, 49, 80} {
				ctx := testContext()
				ctx.BatteryPct = pct
				ctx.Urgency = u
				bd := scoreFor(t, e, testStation(), d, ctx, nil)
				for name, v := range map[string]float64{
					"distance": bd.Distance, "availability": bd.Availability,
					"energy": bd.EnergyEfficiency, "urgency": bd.Urgency,
					"price": bd.Price, "plug": bd.PlugCompat,
					"rating": bd.Rating, "eta": bd.ETA, "total": bd.Total,
				} {
					assert.GreaterOrEqual(t, v, 0.0, "%s u=%s pct=%v d=%v", name, u, pct, d)
					assert.LessOrEqual(t, v, 1.0, "%s u=%s pct=%v d=%v", name, u, pct, d)
				}
			}
		}
	}
}

func TestScore_CloserStationScoresHigher(t *testing.T) {
	e := NewEngine(Params{})
	near := scoreFor(t, e, testStation(), 3, testContext(), nil)
	far := scoreFor(t, e, testStation(), 40, testContext(), nil)
	assert.Greater(t, near.Total, far.Total)
}

func TestScore_PlugCompatibility(t *testing.T) {
	e := NewEngine(Params{})
	ctx := testContext()
	ctx.PlugType = "CHAdeMO"
	bd := scoreFor(t, e, testStation(), 5, ctx, nil)
	assert.InDelta(t, 0.3, bd.PlugCompat, 1e-9)

	ctx.PlugType = "CCS2"
	bd = scoreFor(t, e, testStation(), 5, ctx, nil)
	assert.InDelta(t, 1.0, bd.PlugCompat, 1e-9)

	ctx.PlugType = ""
	bd = scoreFor(t, e, testStation(), 5, ctx, nil)
	assert.InDelta(t, 1.0, bd.PlugCompat, 1e-9)
}

func TestScore_UrgencyBonuses(t *testing.T) {
	e := NewEngine(Params{})

	ctx := testContext()
	ctx.Urgency = model.UrgencyHigh
	near := scoreFor(t, e, testStation(), 8, ctx, nil)
	assert.InDelta(t, 1.0, near.Urgency, 1e-9) // 0.8 + 0.2 bonus
	mid := scoreFor(t, e, testStation(), 20, ctx, nil)
	assert.InDelta(t, 0.9, mid.Urgency, 1e-9)

	ctx.Urgency = model.UrgencyLow
	rated := scoreFor(t, e, testStation(), 8, ctx, nil)
	assert.InDelta(t, 0.4, rated.Urgency, 1e-9) // 0.3 + rating bonus

	lowRated := testStation()
	lowRated.Rating = 3.0
	plain := scoreFor(t, e, lowRated, 8, ctx, nil)
	assert.InDelta(t, 0.3, plain.Urgency, 1e-9)
}

func TestScore_UnreachableZeroedAboveSixtyPercent(t *testing.T) {
	e := NewEngine(Params{})
	ctx := testContext()
	ctx.BatteryPct = 90
	// 300 km needs 60 kWh, usable is 43.2 kWh.
	bd := scoreFor(t, e, testStation(), 300, ctx, nil)
	assert.Zero(t, bd.EnergyEfficiency)
}

func TestScore_ReachabilityTiers(t *testing.T) {
	e := NewEngine(Params{})
	em := energy.New(energy.Params{})
	et := eta.New(eta.Params{}).Estimate(10, model.ModeRandom, model.TrafficLight, model.TerrainFlat, model.WeatherClear)

	ctx := testContext()
	ctx.BatteryPct = 15
	ea := em.Analyze(10, false, 1, model.TerrainFlat, ctx.BatteryPct)
	require.True(t, ea.Reachable)
	bd, err := e.Score(testStation(), 10, ea, et, nil, ctx)
	require.NoError(t, err)
	// Critical battery doubles the reachable efficiency score, capped at 1.
	want := ea.EfficiencyScore * 2
	if want > 1 {
		want = 1
	}
	assert.InDelta(t, want, bd.EnergyEfficiency, 1e-3)

	unreachable := em.Analyze(100, false, 1, model.TerrainFlat, ctx.BatteryPct)
	require.False(t, unreachable.Reachable)
	bd, err = e.Score(testStation(), 100, unreachable, et, nil, ctx)
	require.NoError(t, err)
	assert.Zero(t, bd.EnergyEfficiency)
}

func TestScore_RouteBonusApplied(t *testing.T) {
	e := NewEngine(Params{})
	ra := &model.RouteAnalysis{AlongRoute: true, RouteEfficiency: 0.9}
	with := scoreFor(t, e, testStation(), 10, testContext(), ra)
	without := scoreFor(t, e, testStation(), 10, testContext(), nil)
	assert.InDelta(t, 0.09, with.RouteBonus, 1e-9)
	assert.InDelta(t, without.Total+0.09, with.Total, 1e-9)

	off := &model.RouteAnalysis{AlongRoute: false, RouteEfficiency: 0.9}
	bd := scoreFor(t, e, testStation(), 10, testContext(), off)
	assert.Zero(t, bd.RouteBonus)
}

func TestScore_InvalidStationRejected(t *testing.T) {
	e := NewEngine(Params{})
	bad := testStation()
	bad.AvailableSlots = 9 // more than total
	em := energy.New(energy.Params{})
	ea := em.Analyze(5, false, 1, model.TerrainFlat, 80)
	et := eta.New(eta.Params{}).Estimate(5, model.ModeRandom, model.TrafficLight, model.TerrainFlat, model.WeatherClear)
	_, err := e.Score(bad, 5, ea, et, nil, testContext())
	assert.Error(t, err)
}

func TestScore_WeightVectorEchoed(t *testing.T) {
	e := NewEngine(Params{})
	ctx := testContext()
	bd := scoreFor(t, e, testStation(), 5, ctx, nil)
	assert.Equal(t, SelectWeights(ctx.Urgency, ctx.BatteryPct), bd.Weights)
	assert.InDelta(t, 1.0, bd.Weights.Sum(), 1e-9)
}
