// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
)

// The directory endpoints are public listings by role. Credentials are
// stripped at the store projection, so nothing sensitive can leak even
// if the model's JSON tags drift.

func (h *Handler) HandleAllDonors(w http.ResponseWriter, r *http.Request) {
	h.listRole(w, r, models.RoleDonor)
}

func (h *Handler) HandleAllRecipients(w http.ResponseWriter, r *http.Request) {
	h.listRole(w, r, models.RoleRecipient)
}

func (h *Handler) HandleAllHospitals(w http.ResponseWriter, r *http.Request) {
	h.listRole(w, r, models.RoleHospital)
}

func (h *Handler) HandleAllOrganizations(w http.ResponseWriter, r *http.Request) {
	h.listRole(w, r, models.RoleOrganization)
}

func (h *Handler) listRole(w http.ResponseWriter, r *http.Request, role string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.ListByRole(ctx, role)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("listing users", err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, "", list)
}
