package model

import "fmt"

// Station is a read-only snapshot of a charging station as provided by the
// station registry. The engine never mutates it.
type Station struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Location       Coordinate `json:"location"`
	AvailableSlots int        `json:"available_slots"`
	TotalSlots     int        `json:"total_slots"`
	PlugTypes      []string   `json:"plug_types"`
	PricePerKWh    float64    `json:"price_per_kwh"`
	Features       []string   `json:"features,omitempty"`
	Rating         float64    `json:"rating"`
}

// Validate checks that the station snapshot is internally consistent.
func (s Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station id must not be empty")
	}
	if err := s.Location.Validate(); err != nil {
		return fmt.Errorf("station %s: %w", s.ID, err)
	}
	if s.TotalSlots < 0 {
		return fmt.Errorf("station %s: total slots must not be negative", s.ID)
	}
	if s.AvailableSlots < 0 || s.AvailableSlots > s.TotalSlots {
		return fmt.Errorf("station %s: available slots %d outside [0,%d]", s.ID, s.AvailableSlots, s.TotalSlots)
	}
	if s.Rating < 0 || s.Rating > 5 {
		return fmt.Errorf("station %s: rating %v outside [0,5]", s.ID, s.Rating)
	}
	return nil
}

// SupportsPlug reports whether the station offers the given plug type.
func (s Station) SupportsPlug(plug string) bool {
	for _, p := range s.PlugTypes {
		if p == plug {
			return true
		}
	}
	return false
}
