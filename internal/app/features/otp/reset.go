// internal/app/features/otp/reset.go
package otp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	resetcodes "github.com/bloodlinkhq/bloodlink/internal/app/store/resetcodes"
	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// HandleForgotPassword issues a one-time reset code for a known account
// and emails it. An unknown email is reported as NotFound; the mail send
// is part of the operation, so an SMTP failure surfaces as an upstream
// error rather than silently stranding the user without a code.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if err := fieldpolicy.ValidateEmailSyntax(req.Email); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("no account found for this email"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("looking up user", err))
		return
	}

	code, err := h.Codes.Issue(ctx, u.Email)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("issuing reset code", err))
		return
	}

	e := mailer.BuildResetCodeEmail(mailer.ResetCodeData{
		SiteName:  h.SiteName,
		Code:      code.Code,
		ExpiresIn: fmt.Sprintf("%d minutes", int(h.Codes.Expiry().Minutes())),
	})
	e.To = []string{u.Email}
	if err := h.Mail.Send(ctx, e); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Upstream("could not send the reset email", err))
		return
	}

	h.Log.Info("password reset code issued", zap.String("email", u.Email))
	httpapi.WriteJSON(w, http.StatusOK, "Password reset code sent to your email", nil)
}

// HandleResetPassword redeems a reset code and replaces the account's
// password. Codes are single-use: a successful reset purges every live
// code for the email.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("email, otp, and newPassword are required"))
		return
	}
	if len(req.NewPassword) < 6 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("password must be at least 6 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	email := normalize.Email(req.Email)
	if err := h.Codes.Consume(ctx, email, req.OTP); err != nil {
		if errors.Is(err, resetcodes.ErrInvalidOrExpired) {
			httpapi.WriteError(w, h.Log, httpapi.Validation("invalid or expired reset code"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("verifying reset code", err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("hashing password", err))
		return
	}
	if err := h.Users.UpdatePasswordHash(ctx, email, string(hash)); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("no account found for this email"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("updating password", err))
		return
	}

	h.Log.Info("password reset completed", zap.String("email", email))
	httpapi.WriteJSON(w, http.StatusOK, "Password reset successfully", nil)
}
