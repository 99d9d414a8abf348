// internal/app/features/users/block.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type blockRequest struct {
	Email string `json:"email"`
}

// HandleBlockUser disables an account by email. Admin only; the route
// guard enforces that, this handler just does the flip. Blocking an
// already-blocked user succeeds.
func (h *Handler) HandleBlockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true, "User blocked successfully")
}

// HandleUnblockUser re-enables a blocked account by email.
func (h *Handler) HandleUnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false, "User unblocked successfully")
}

func (h *Handler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool, okMsg string) {
	var req blockRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if req.Email == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("email is required"))
		return
	}
	if err := fieldpolicy.ValidateEmailSyntax(req.Email); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetBlocked(ctx, req.Email, blocked); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("user not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("updating block state", err))
		return
	}

	h.Log.Info("account block state changed",
		zap.String("email", req.Email),
		zap.Bool("blocked", blocked),
	)
	httpapi.WriteJSON(w, http.StatusOK, okMsg, nil)
}
