package recommend

import (
	"encoding/json"
	"net/http"

	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/infra/routing"
)

// routeRequest is the POST body of /api/route.
type routeRequest struct {
	From *model.Coordinate `json:"from"`
	To   *model.Coordinate `json:"to"`
}

// NewRouteHandler serves POST /api/route with an interpolated display route.
func NewRouteHandler(planner *routing.Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req routeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.From == nil || req.To == nil {
			http.Error(w, "from and to are required", http.StatusBadRequest)
			return
		}
		if err := req.From.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := req.To.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		route := planner.Plan(*req.From, *req.To)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(route); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
