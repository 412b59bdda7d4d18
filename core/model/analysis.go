package model

// EnergyAnalysis breaks down the estimated energy needed to reach a station
// and whether the trip fits into the usable battery budget.
type EnergyAnalysis struct {
	BaseKWh         float64 `json:"base_kwh"`
	ACPenaltyKWh    float64 `json:"ac_penalty_kwh"`
	PassengerKWh    float64 `json:"passenger_penalty_kwh"`
	TerrainKWh      float64 `json:"terrain_penalty_kwh"`
	TotalKWh        float64 `json:"total_kwh"`
	AvailableKWh    float64 `json:"available_kwh"`
	UsableKWh       float64 `json:"usable_kwh"`
	Reachable       bool    `json:"reachable"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// ETAAnalysis is the travel-time estimate for a leg.
type ETAAnalysis struct {
	DistanceKm float64 `json:"distance_km"`
	SpeedKmh   float64 `json:"effective_speed_kmh"`
	Minutes    float64 `json:"travel_time_minutes"`
	Display    string  `json:"eta"`
}

// RouteAnalysis describes how a candidate station relates to the
// origin-destination path. It is only produced when a destination is set.
type RouteAnalysis struct {
	DirectKm        float64 `json:"direct_km"`
	ViaStationKm    float64 `json:"via_station_km"`
	DetourKm        float64 `json:"detour_km"`
	ToStationKm     float64 `json:"to_station_km"`
	StationToDestKm float64 `json:"station_to_dest_km"`
	AngleDiffDeg    float64 `json:"angle_diff_deg"`
	AlongRoute      bool    `json:"along_route"`
	// RouteEfficiency is direct/via-station distance, 0 when the station
	// coincides with the origin.
	RouteEfficiency float64 `json:"route_efficiency"`
}

// WeightVector holds the seven normalized importance weights used by the
// scoring engine. The ETA contribution is flat and lives outside the vector.
type WeightVector struct {
	Distance         float64 `json:"distance"`
	Availability     float64 `json:"availability"`
	EnergyEfficiency float64 `json:"energy_efficiency"`
	Urgency          float64 `json:"urgency"`
	Price            float64 `json:"price"`
	PlugCompat       float64 `json:"plug_compatibility"`
	Rating           float64 `json:"rating"`
}

// Sum returns the total of the seven weights.
func (w WeightVector) Sum() float64 {
	return w.Distance + w.Availability + w.EnergyEfficiency + w.Urgency + w.Price + w.PlugCompat + w.Rating
}

// ScoreBreakdown exposes every normalized sub-score, the final composite
// total and the exact weight vector used, for auditability.
type ScoreBreakdown struct {
	Distance         float64      `json:"distance_score"`
	Availability     float64      `json:"availability_score"`
	EnergyEfficiency float64      `json:"energy_efficiency_score"`
	Urgency          float64      `json:"urgency_score"`
	Price            float64      `json:"price_score"`
	PlugCompat       float64      `json:"plug_compatibility_score"`
	Rating           float64      `json:"rating_score"`
	ETA              float64      `json:"eta_score"`
	RouteBonus       float64      `json:"route_efficiency_bonus,omitempty"`
	Total            float64      `json:"total"`
	Weights          WeightVector `json:"weights_used"`
}
