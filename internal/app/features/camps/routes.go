// internal/app/features/camps/routes.go
package camps

import (
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all camp routes under the path where the caller mounts
// it. Typically: r.Mount("/camps", camps.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public listing.
	r.Get("/allCamps", h.HandleAllCamps)

	// Organizers: camp lifecycle.
	r.Group(func(or chi.Router) {
		or.Use(auth.RequireSignedIn)
		or.Use(auth.RequireRole(models.RoleHospital, models.RoleOrganization))
		or.Post("/registerCamp", h.HandleRegisterCamp)
		or.Put("/updateCamp", h.HandleUpdateCamp)
		or.Delete("/deleteCamp", h.HandleDeleteCamp)
		or.Get("/myCamps", h.HandleMyCamps)
	})

	// Seekers: nearby-camp matching.
	r.Group(func(sr chi.Router) {
		sr.Use(auth.RequireSignedIn)
		sr.Use(auth.RequireRole(models.RoleDonor, models.RoleRecipient))
		sr.Post("/matchCamps", h.HandleMatchCamps)
	})

	return r
}
