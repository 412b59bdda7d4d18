package model

import "time"

// Recommendation is one ranked station with its full derived analysis.
type Recommendation struct {
	Station        Station        `json:"station"`
	DistanceKm     float64        `json:"distance_km"`
	Score          float64        `json:"score"`
	Breakdown      ScoreBreakdown `json:"score_breakdown"`
	Energy         EnergyAnalysis `json:"energy_analysis"`
	ETA            ETAAnalysis    `json:"eta_analysis"`
	Route          *RouteAnalysis `json:"route_analysis,omitempty"`
	Reachable      bool           `json:"reachable"`
	Fallback       bool           `json:"fallback"`
	FallbackReason string         `json:"fallback_reason,omitempty"`

	// Path is the optional decorated approximate path; it never influences
	// the ranking.
	Path []Coordinate `json:"path,omitempty"`
}

// ResultMetadata describes how a result set was produced.
type ResultMetadata struct {
	RequestID           string        `json:"request_id"`
	Algorithm           string        `json:"algorithm"`
	StationsProcessed   int           `json:"stations_processed"`
	RouteFiltered       int           `json:"route_filtered"`
	UnreachableFiltered int           `json:"unreachable_filtered"`
	Reachable           int           `json:"reachable_stations"`
	ScoringErrors       []string      `json:"scoring_errors,omitempty"`
	UnknownDestination  string        `json:"unknown_destination,omitempty"`
	FallbackUsed        bool          `json:"fallback_used"`
	RouteFilterActive   bool          `json:"route_filtering"`
	UnreachableActive   bool          `json:"filter_unreachable"`
	ProcessingTime      time.Duration `json:"processing_time"`
}

// Result is the terminal output of a recommendation run. An empty candidate
// set yields an empty list with explanatory metadata, never an error.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResultMetadata   `json:"metadata"`
}
