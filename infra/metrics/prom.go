package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/evnav/evnav/core/metrics"
)

// PromSink records recommendation runs in Prometheus metrics.
type PromSink struct {
	requests *prometheus.CounterVec
	filtered *prometheus.CounterVec
	duration *prometheus.HistogramVec
	topScore *prometheus.HistogramVec
}

// NewPromSink registers recommendation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Total number of recommendation requests",
	}, []string{"urgency", "fallback"})
	filtered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_stations_filtered_total",
		Help: "Stations dropped before ranking, by filter",
	}, []string{"filter"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_duration_seconds",
		Help:    "Time spent producing a recommendation result",
		Buckets: prometheus.DefBuckets,
	}, []string{"urgency"})
	topScore := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_top_score",
		Help:    "Composite score of the best ranked station",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	}, []string{"urgency"})

	if err := reg.Register(requests); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			requests = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(filtered); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			filtered = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(topScore); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			topScore = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{requests: requests, filtered: filtered, duration: duration, topScore: topScore}, nil
}

// RecordRecommendation updates the counters and histograms for one run.
func (s *PromSink) RecordRecommendation(rec coremetrics.RecommendationRecord) error {
	urgency := string(rec.Urgency)
	s.requests.WithLabelValues(urgency, strconv.FormatBool(rec.FallbackUsed)).Inc()
	if rec.RouteFiltered > 0 {
		s.filtered.WithLabelValues("route").Add(float64(rec.RouteFiltered))
	}
	if rec.UnreachableFiltered > 0 {
		s.filtered.WithLabelValues("unreachable").Add(float64(rec.UnreachableFiltered))
	}
	s.duration.WithLabelValues(urgency).Observe(rec.ProcessingTime.Seconds())
	if rec.Returned > 0 {
		s.topScore.WithLabelValues(urgency).Observe(rec.TopScore)
	}
	return nil
}
