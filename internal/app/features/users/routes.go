// internal/app/features/users/routes.go
package users

import (
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all account routes under the path where the caller
// mounts it. Typically: r.Mount("/users", users.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public: registration, sign-in, directories, donor matching.
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Get("/allDonors", h.HandleAllDonors)
	r.Get("/allRecipients", h.HandleAllRecipients)
	r.Get("/allHospitals", h.HandleAllHospitals)
	r.Get("/allOrganizations", h.HandleAllOrganizations)
	r.Post("/matchDonors", h.HandleMatchDonors)

	// Signed-in: own profile.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/currentUser", h.HandleCurrentUser)
		pr.Put("/updateUser", h.HandleUpdateUser)
	})

	// Admin: account disablement.
	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireSignedIn)
		ar.Use(auth.RequireRole(models.RoleAdmin))
		ar.Put("/blockUser", h.HandleBlockUser)
		ar.Put("/unblockUser", h.HandleUnblockUser)
	})

	return r
}
