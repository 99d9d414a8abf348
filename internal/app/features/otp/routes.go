// internal/app/features/otp/routes.go
package otp

import "github.com/go-chi/chi/v5"

// Routes mounts the password-reset routes. Both are public; possession
// of the emailed code is the credential.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/forgotPassword", h.HandleForgotPassword)
	r.Post("/resetPassword", h.HandleResetPassword)
	return r
}
