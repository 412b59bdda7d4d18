// Package recommend runs the full ranking pipeline: route filtering, energy
// and ETA analysis, composite scoring, reachability degradation and
// deterministic ordering.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evnav/evnav/core/energy"
	"github.com/evnav/evnav/core/eta"
	"github.com/evnav/evnav/core/events"
	"github.com/evnav/evnav/core/geo"
	"github.com/evnav/evnav/core/logger"
	"github.com/evnav/evnav/core/metrics"
	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/core/route"
	"github.com/evnav/evnav/core/scoring"
	"github.com/evnav/evnav/internal/eventbus"
)

// AlgorithmLabel names the ranking strategy in result metadata.
const AlgorithmLabel = "context-aware-mcdm"

// batteryFilterThreshold is the battery percentage at or below which
// unreachable stations are always dropped before ranking.
const batteryFilterThreshold = 30.0

// Orchestrator wires the scoring pipeline over a station source and an
// optional city lookup. All collaborators are injected; the orchestrator
// holds no mutable state between runs.
type Orchestrator struct {
	stations StationSource
	cities   CityLookup
	energy   *energy.Model
	eta      *eta.Model
	engine   *scoring.Engine
	cfg      Config
	log      logger.Logger
	sink     metrics.Sink
	bus      eventbus.EventBus[events.Event]
}

// New creates an Orchestrator. The sink, bus and logger may be nil.
func New(stations StationSource, cities CityLookup, em *energy.Model, et *eta.Model, engine *scoring.Engine, cfg Config, sink metrics.Sink, bus eventbus.EventBus[events.Event], log logger.Logger) (*Orchestrator, error) {
	if stations == nil {
		return nil, fmt.Errorf("recommend: station source is required")
	}
	if em == nil {
		em = energy.New(energy.Params{})
	}
	if et == nil {
		et = eta.New(eta.Params{})
	}
	if engine == nil {
		engine = scoring.NewEngine(scoring.Params{})
	}
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Orchestrator{
		stations: stations,
		cities:   cities,
		energy:   em,
		eta:      et,
		engine:   engine,
		cfg:      cfg,
		sink:     sink,
		bus:      bus,
		log:      log,
	}, nil
}

// candidate pairs a station with its route analysis from the filtering phase.
type candidate struct {
	station model.Station
	route   *model.RouteAnalysis
}

// scored is the per-candidate outcome of the scoring phase.
type scored struct {
	rec model.Recommendation
	err error
}

// Recommend ranks the current station snapshot for the given context. It
// never fails for an empty or fully filtered candidate set; the only error
// source is the station snapshot itself.
func (o *Orchestrator) Recommend(ctx context.Context, uctx model.UserContext) (model.Result, error) {
	start := time.Now()
	uctx = uctx.Normalize()
	requestID := uuid.NewString()

	if o.bus != nil {
		o.bus.Publish(events.RequestEvent{RequestID: requestID, Context: uctx})
	}

	stations, err := o.stations.Stations(ctx)
	if err != nil {
		return model.Result{}, fmt.Errorf("load stations: %w", err)
	}

	meta := model.ResultMetadata{
		RequestID:         requestID,
		Algorithm:         AlgorithmLabel,
		StationsProcessed: len(stations),
	}

	dest, destSet := o.resolveDestination(uctx, &meta)

	// Filtering phase: drop stations that are not along the route.
	candidates := make([]candidate, 0, len(stations))
	for _, st := range stations {
		if destSet {
			ra := route.Analyze(uctx.Origin, dest, st.Location, uctx.MaxDetourKm, uctx.Urgency)
			if !ra.AlongRoute {
				meta.RouteFiltered++
				o.log.Debugw("station filtered by route", map[string]any{
					"station": st.ID, "detour_km": ra.DetourKm, "angle_deg": ra.AngleDiffDeg,
				})
				continue
			}
			candidates = append(candidates, candidate{station: st, route: &ra})
			continue
		}
		candidates = append(candidates, candidate{station: st})
	}

	filterUnreachable := uctx.BatteryPct <= batteryFilterThreshold ||
		uctx.Urgency == model.UrgencyHigh || uctx.Urgency == model.UrgencyEmergency ||
		uctx.FilterUnreachable
	meta.UnreachableActive = filterUnreachable

	// Scoring phase, fanned out per candidate. Results land at their input
	// index so completion order never affects the outcome.
	all := o.scoreAll(candidates, uctx)

	reachable := 0
	kept := make([]model.Recommendation, 0, len(all))
	dropped := make([]model.Recommendation, 0)
	for _, s := range all {
		if s.err != nil {
			meta.ScoringErrors = append(meta.ScoringErrors, s.err.Error())
		}
		if s.rec.Reachable {
			reachable++
		}
		if filterUnreachable && !s.rec.Reachable {
			meta.UnreachableFiltered++
			dropped = append(dropped, s.rec)
			continue
		}
		kept = append(kept, s.rec)
	}
	meta.Reachable = reachable

	// Degraded ranking: strict filtering emptied the set while candidates
	// existed, so hand back the unreachable ones at half score rather than
	// an empty list.
	if filterUnreachable && len(kept) == 0 && len(dropped) > 0 {
		for i := range dropped {
			r := &dropped[i]
			r.Score *= 0.5
			r.Fallback = true
			r.FallbackReason = fmt.Sprintf("station requires %.2f kWh but only %.2f kWh usable", r.Energy.TotalKWh, r.Energy.UsableKWh)
		}
		kept = dropped
		meta.FallbackUsed = true
		if o.bus != nil {
			o.bus.Publish(events.FallbackEvent{RequestID: requestID, Reason: "no reachable station"})
		}
		o.log.Warnf("no reachable station, returning %d degraded recommendations", len(kept))
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Station.ID < kept[j].Station.ID
	})
	if len(kept) > o.cfg.MaxRecommendations {
		kept = kept[:o.cfg.MaxRecommendations]
	}

	meta.ProcessingTime = time.Since(start)
	result := model.Result{Recommendations: kept, Metadata: meta}

	o.emit(result, uctx)
	return result, nil
}

// resolveDestination looks up the destination city, degrading to no route
// filtering when the name is unknown.
func (o *Orchestrator) resolveDestination(uctx model.UserContext, meta *model.ResultMetadata) (model.Coordinate, bool) {
	if uctx.DestinationCity == "" || o.cities == nil {
		return model.Coordinate{}, false
	}
	coord, err := o.cities.Resolve(uctx.DestinationCity)
	if err != nil {
		if errors.Is(err, ErrUnknownCity) {
			meta.UnknownDestination = uctx.DestinationCity
			o.log.Warnf("unknown destination city %q, route filtering disabled", uctx.DestinationCity)
			return model.Coordinate{}, false
		}
		o.log.Errorf("city lookup: %v", err)
		return model.Coordinate{}, false
	}
	meta.RouteFilterActive = true
	meta.Algorithm = fmt.Sprintf("%s (route to %s)", AlgorithmLabel, uctx.DestinationCity)
	return coord, true
}

// scoreAll scores every candidate with a bounded worker fan-out.
func (o *Orchestrator) scoreAll(candidates []candidate, uctx model.UserContext) []scored {
	results := make([]scored, len(candidates))
	workers := o.cfg.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers <= 1 {
		for i, c := range candidates {
			results[i] = o.scoreOne(c, uctx)
		}
		return results
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.scoreOne(candidates[i], uctx)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// scoreOne computes the full analysis for one candidate. Scoring errors are
// not fatal: the recommendation degrades to a distance-only score and the
// error is surfaced to the caller through metadata.
func (o *Orchestrator) scoreOne(c candidate, uctx model.UserContext) scored {
	dist := geo.DistanceKm(uctx.Origin, c.station.Location)
	ea := o.energy.Analyze(dist, uctx.ACOn, uctx.Passengers, uctx.Terrain, uctx.BatteryPct)
	et := o.eta.Estimate(dist, uctx.DrivingMode, uctx.Traffic, uctx.Terrain, uctx.Weather)

	rec := model.Recommendation{
		Station:    c.station,
		DistanceKm: dist,
		Energy:     ea,
		ETA:        et,
		Route:      c.route,
		Reachable:  ea.Reachable,
	}

	bd, err := o.engine.Score(c.station, dist, ea, et, c.route, uctx)
	if err != nil {
		rec.Score = distanceOnlyScore(dist)
		rec.Breakdown = model.ScoreBreakdown{Distance: rec.Score, Total: rec.Score}
		return scored{rec: rec, err: fmt.Errorf("station %s: %w", c.station.ID, err)}
	}
	rec.Score = bd.Total
	rec.Breakdown = bd
	return scored{rec: rec}
}

// distanceOnlyScore is the documented minimal fallback used when full scoring
// fails for a station.
func distanceOnlyScore(distKm float64) float64 {
	s := 1 - distKm/50
	if s < 0 {
		return 0
	}
	return s
}

func (o *Orchestrator) emit(res model.Result, uctx model.UserContext) {
	top := 0.0
	if len(res.Recommendations) > 0 {
		top = res.Recommendations[0].Score
	}
	if o.bus != nil {
		o.bus.Publish(events.ResultEvent{
			RequestID:      res.Metadata.RequestID,
			Returned:       len(res.Recommendations),
			FallbackUsed:   res.Metadata.FallbackUsed,
			TopScore:       top,
			ProcessingTime: res.Metadata.ProcessingTime,
		})
	}
	rec := metrics.RecommendationRecord{
		RequestID:           res.Metadata.RequestID,
		Urgency:             uctx.Urgency,
		BatteryPct:          uctx.BatteryPct,
		DestinationCity:     uctx.DestinationCity,
		StationsProcessed:   res.Metadata.StationsProcessed,
		Returned:            len(res.Recommendations),
		RouteFiltered:       res.Metadata.RouteFiltered,
		UnreachableFiltered: res.Metadata.UnreachableFiltered,
		FallbackUsed:        res.Metadata.FallbackUsed,
		TopScore:            top,
		ProcessingTime:      res.Metadata.ProcessingTime,
	}
	if err := o.sink.RecordRecommendation(rec); err != nil {
		o.log.Errorf("metrics sink: %v", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
