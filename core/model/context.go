package model

// Urgency is the caller-supplied charging-need tier. It reweights scoring and
// widens or narrows route-filter tolerances.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// Valid reports whether u is a known urgency tier.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// Terrain classifies the terrain between the driver and a station.
type Terrain string

const (
	TerrainFlat  Terrain = "flat"
	TerrainHilly Terrain = "hilly"
	TerrainSteep Terrain = "steep"
)

// Valid reports whether t is a known terrain class.
func (t Terrain) Valid() bool {
	switch t {
	case TerrainFlat, TerrainHilly, TerrainSteep:
		return true
	}
	return false
}

// DrivingMode selects the base travel speed used for ETA estimation.
type DrivingMode string

const (
	ModeEconomy DrivingMode = "economy"
	ModeSports  DrivingMode = "sports"
	ModeRandom  DrivingMode = "random"
)

// Traffic describes the current traffic condition, used only for ETA.
type Traffic string

const (
	TrafficHeavy  Traffic = "heavy"
	TrafficMedium Traffic = "medium"
	TrafficLight  Traffic = "light"
)

// Weather describes the current weather, used only for ETA.
type Weather string

const (
	WeatherClear Weather = "clear"
	WeatherRain  Weather = "rain"
	WeatherFog   Weather = "fog"
	WeatherSnow  Weather = "snow"
)

// DefaultMaxDetourKm is the detour budget applied when the request does not
// carry one.
const DefaultMaxDetourKm = 20.0

// UserContext carries the per-request driver and trip parameters. It is
// immutable once built; Normalize returns a defensively clamped copy.
type UserContext struct {
	Origin            Coordinate  `json:"origin"`
	BatteryPct        float64     `json:"battery_pct"`
	PlugType          string      `json:"plug_type,omitempty"`
	Urgency           Urgency     `json:"urgency"`
	ACOn              bool        `json:"ac_on"`
	Passengers        int         `json:"passengers"`
	Terrain           Terrain     `json:"terrain"`
	DestinationCity   string      `json:"destination_city,omitempty"`
	MaxDetourKm       float64     `json:"max_detour_km,omitempty"`
	DrivingMode       DrivingMode `json:"driving_mode,omitempty"`
	Traffic           Traffic     `json:"traffic,omitempty"`
	Weather           Weather     `json:"weather,omitempty"`
	FilterUnreachable bool        `json:"filter_unreachable,omitempty"`
}

// Normalize clamps out-of-range fields and fills defaults. The request layer
// validates ranges already; the engine still clamps defensively.
func (c UserContext) Normalize() UserContext {
	if c.BatteryPct < 1 {
		c.BatteryPct = 1
	}
	if c.BatteryPct > 100 {
		c.BatteryPct = 100
	}
	if c.Passengers < 1 {
		c.Passengers = 1
	}
	if c.Passengers > 8 {
		c.Passengers = 8
	}
	if !c.Urgency.Valid() {
		c.Urgency = UrgencyMedium
	}
	if !c.Terrain.Valid() {
		c.Terrain = TerrainFlat
	}
	if c.MaxDetourKm <= 0 {
		c.MaxDetourKm = DefaultMaxDetourKm
	}
	if c.DrivingMode == "" {
		c.DrivingMode = ModeRandom
	}
	if c.Traffic == "" {
		c.Traffic = TrafficLight
	}
	if c.Weather == "" {
		c.Weather = WeatherClear
	}
	return c
}
