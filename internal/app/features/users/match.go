// internal/app/features/users/match.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/matcher"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
)

// HandleMatchDonors validates the recipient-and-location payload and
// relays it to the external donor matcher. The payload and the matcher's
// JSON response both pass through untouched beyond validation; this
// service never ranks donors itself.
func (h *Handler) HandleMatchDonors(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := httpapi.Decode(r, &raw); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	var bloodGroup string
	var lat, lon float64
	if b, ok := raw["bloodGroup"]; ok {
		_ = json.Unmarshal(b, &bloodGroup)
	}
	if b, ok := raw["latitude"]; ok {
		_ = json.Unmarshal(b, &lat)
	}
	if b, ok := raw["longitude"]; ok {
		_ = json.Unmarshal(b, &lon)
	}

	if bloodGroup == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("bloodGroup is required"))
		return
	}
	if !models.IsValidBloodGroup(bloodGroup) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid blood group"))
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("latitude/longitude out of range"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matcher.DefaultTimeout)
	defer cancel()

	result, err := h.Match.MatchDonors(ctx, raw)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Upstream("donor matching service unavailable", err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, "", result)
}
