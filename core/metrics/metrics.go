package metrics

import (
	"time"

	"github.com/evnav/evnav/core/model"
)

// RecommendationRecord is one completed recommendation run to be recorded.
type RecommendationRecord struct {
	RequestID           string
	Urgency             model.Urgency
	BatteryPct          float64
	DestinationCity     string
	StationsProcessed   int
	Returned            int
	RouteFiltered       int
	UnreachableFiltered int
	FallbackUsed        bool
	TopScore            float64
	ProcessingTime      time.Duration
}

// Sink records recommendation runs for observability purposes.
type Sink interface {
	RecordRecommendation(rec RecommendationRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecommendation(RecommendationRecord) error { return nil }
