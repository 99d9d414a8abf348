// internal/app/features/camps/list.go
package camps

import (
	"context"
	"net/http"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
)

// HandleAllCamps returns every registered camp, soonest first. Public.
func (h *Handler) HandleAllCamps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	camps, err := h.Camps.List(ctx)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("listing camps", err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, "", camps)
}

// HandleMyCamps returns the camps whose organizerEmail matches the
// signed-in user. The join is by value; camps survive even if the
// organizer account is later removed.
func (h *Handler) HandleMyCamps(w http.ResponseWriter, r *http.Request) {
	tu, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("authentication required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	camps, err := h.Camps.ListByOrganizerEmail(ctx, tu.Email)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("listing camps", err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, "", camps)
}
