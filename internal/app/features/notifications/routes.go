// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification routes. Blood-request alerts are
// public (the matcher frontend calls them on behalf of recipients);
// feedback requires a signed-in sender for Reply-To attribution.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/sendNotification", h.HandleSendNotification)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Post("/sendFeedback", h.HandleSendFeedback)
	})

	return r
}
