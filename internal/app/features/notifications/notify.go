// internal/app/features/notifications/notify.go
package notifications

import (
	"context"
	"net/http"
	"strings"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.uber.org/zap"
)

type sendNotificationRequest struct {
	Emails     []string `json:"emails"`
	BloodGroup string   `json:"bloodGroup"`
	Location   string   `json:"location"`
}

// HandleSendNotification emails an urgent donation request to the given
// donor addresses. One message per recipient; a failure on any send
// surfaces as an upstream error instead of being swallowed, so the
// caller knows the alert did not go out.
func (h *Handler) HandleSendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if len(req.Emails) == 0 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("at least one recipient email is required"))
		return
	}
	if !models.IsValidBloodGroup(req.BloodGroup) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid blood group"))
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("location is required"))
		return
	}
	for _, to := range req.Emails {
		if err := fieldpolicy.ValidateEmailSyntax(to); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e := mailer.BuildBloodRequestEmail(mailer.BloodRequestData{
		SiteName:   h.SiteName,
		BloodGroup: req.BloodGroup,
		Location:   h.sanitize.Sanitize(req.Location),
	})
	for _, to := range req.Emails {
		e.To = []string{to}
		if err := h.Mail.Send(ctx, e); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Upstream("could not send the notification email", err))
			return
		}
	}

	h.Log.Info("blood request notifications sent",
		zap.Int("recipients", len(req.Emails)),
		zap.String("blood_group", req.BloodGroup),
	)
	httpapi.WriteJSON(w, http.StatusOK, "Notification sent successfully", nil)
}

type sendFeedbackRequest struct {
	Message string `json:"message"`
}

// HandleSendFeedback relays a signed-in user's feedback to the platform
// inbox with Reply-To pointing back at the sender. The message passes
// through a strict HTML sanitizer before it is mailed.
func (h *Handler) HandleSendFeedback(w http.ResponseWriter, r *http.Request) {
	tu, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("authentication required"))
		return
	}

	var req sendFeedbackRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	msg := strings.TrimSpace(h.sanitize.Sanitize(req.Message))
	if msg == "" {
		httpapi.WriteError(w, h.Log, httpapi.Validation("message is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e := mailer.BuildFeedbackEmail(mailer.FeedbackData{
		SenderEmail: tu.Email,
		Message:     msg,
	})
	e.To = []string{h.FeedbackInbox}
	if err := h.Mail.Send(ctx, e); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Upstream("could not send the feedback email", err))
		return
	}

	h.Log.Info("feedback relayed", zap.String("sender", tu.Email))
	httpapi.WriteJSON(w, http.StatusOK, "Feedback sent successfully", nil)
}
