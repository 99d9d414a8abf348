// internal/app/features/camps/match.go
package camps

import (
	"context"
	"net/http"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/matcher"
)

type matchCampsRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MaxDistance float64 `json:"maxDistance"` // kilometers
}

// HandleMatchCamps relays a validated location payload to the external
// nearby-camp service, forwarding the caller's bearer token so the
// downstream can attribute the query. Donor and Recipient accounts only
// (route-guarded).
func (h *Handler) HandleMatchCamps(w http.ResponseWriter, r *http.Request) {
	var req matchCampsRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if err := fieldpolicy.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}
	if req.MaxDistance <= 0 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("maxDistance must be positive"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matcher.DefaultTimeout)
	defer cancel()

	result, err := h.Match.MatchCamps(ctx, req, auth.BearerToken(r))
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Upstream("camp matching service unavailable", err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, "", result)
}
