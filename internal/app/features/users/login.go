// internal/app/features/users/login.go
package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      loginProfile `json:"user"`
}

// loginProfile is the slim identity the client caches after sign-in.
type loginProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleLogin authenticates an email/password pair against the record
// registered under the requested role and hands back a signed token,
// both in the body and as an httpOnly cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("email, password, and role are required"))
		return
	}
	if !models.IsValidRole(req.Role) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid role"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("user not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("looking up user", err))
		return
	}

	// A blocked account is refused before the password check so the
	// response cannot be used to probe whether the credential is right.
	if u.IsBlocked {
		httpapi.WriteError(w, h.Log, httpapi.Forbidden("your account has been blocked; contact the administrator"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("invalid credentials"))
		return
	}

	token, err := h.Tokens.Issue(auth.TokenUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}, time.Now())
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("issuing token", err))
		return
	}
	h.Tokens.SetCookie(w, token)

	h.Log.Info("user signed in",
		zap.String("email", u.Email),
		zap.String("role", u.Role),
	)

	httpapi.WriteJSON(w, http.StatusOK, "Login successful", loginResponse{
		Token:     token,
		ExpiresIn: int(auth.TokenTTL / time.Second),
		User: loginProfile{
			ID:    u.ID.Hex(),
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		},
	})
}
