// Package recommend exposes the recommendation engine over HTTP.
package recommend

import (
	"context"
	"encoding/json"
	"net/http"

	corerecommend "github.com/evnav/evnav/core/recommend"

	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/infra/routing"
)

// pathDecorated is how many top recommendations get a display route attached.
const pathDecorated = 3

// Recommender runs a ranking request. Implemented by the orchestrator.
type Recommender interface {
	Recommend(ctx context.Context, uctx model.UserContext) (model.Result, error)
}

// recommendationRequest is the POST body of /api/recommendations. Field
// names follow the frontend wire format.
type recommendationRequest struct {
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	BatteryPercentage float64  `json:"battery_percentage"`
	PlugType          string   `json:"plug_type"`
	UrgencyLevel      string   `json:"urgency_level"`
	ACStatus          bool     `json:"ac_status"`
	Passengers        int      `json:"passengers"`
	Terrain           string   `json:"terrain"`
	DestinationCity   string   `json:"destination_city"`
	MaxDetourKm       float64  `json:"max_detour_km"`
	DrivingMode       string   `json:"driving_mode"`
	Traffic           string   `json:"traffic"`
	Weather           string   `json:"weather"`
	FilterUnreachable bool     `json:"filter_unreachable"`
}

// recommendationResponse wraps the engine result. SupportedCities is only
// set when the requested destination was unknown.
type recommendationResponse struct {
	model.Result
	SupportedCities []string `json:"supported_cities,omitempty"`
}

// NewRecommendationsHandler serves POST /api/recommendations. The planner and
// cities are optional; with a planner the top results carry display paths,
// with a city lookup unknown-destination responses list the supported cities.
func NewRecommendationsHandler(rec Recommender, planner *routing.Planner, cities corerecommend.CityLookup) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req recommendationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Latitude == nil || req.Longitude == nil {
			http.Error(w, "latitude and longitude are required", http.StatusBadRequest)
			return
		}
		origin := model.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude}
		if err := origin.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		uctx := model.UserContext{
			Origin:            origin,
			BatteryPct:        req.BatteryPercentage,
			PlugType:          req.PlugType,
			Urgency:           model.Urgency(req.UrgencyLevel),
			ACOn:              req.ACStatus,
			Passengers:        req.Passengers,
			Terrain:           model.Terrain(req.Terrain),
			DestinationCity:   req.DestinationCity,
			MaxDetourKm:       req.MaxDetourKm,
			DrivingMode:       model.DrivingMode(req.DrivingMode),
			Traffic:           model.Traffic(req.Traffic),
			Weather:           model.Weather(req.Weather),
			FilterUnreachable: req.FilterUnreachable,
		}

		result, err := rec.Recommend(r.Context(), uctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if planner != nil {
			for i := range result.Recommendations {
				if i >= pathDecorated {
					break
				}
				route := planner.Plan(origin, result.Recommendations[i].Station.Location)
				result.Recommendations[i].Path = route.Waypoints
			}
		}

		resp := recommendationResponse{Result: result}
		if result.Metadata.UnknownDestination != "" && cities != nil {
			resp.SupportedCities = cities.Cities()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewCitiesHandler serves GET /api/cities with the supported destinations.
func NewCitiesHandler(cities corerecommend.CityLookup) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		out := struct {
			Cities []string `json:"cities"`
		}{Cities: cities.Cities()}
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
