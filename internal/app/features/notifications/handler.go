// internal/app/features/notifications/handler.go
package notifications

import (
	"context"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Sender is the slice of the mailer this feature needs.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

type Handler struct {
	Mail Sender
	Log  *zap.Logger

	// SiteName appears in outgoing notification emails.
	SiteName string
	// FeedbackInbox receives relayed user feedback.
	FeedbackInbox string

	sanitize *bluemonday.Policy
}

func NewHandler(mail Sender, siteName, feedbackInbox string, logger *zap.Logger) *Handler {
	return &Handler{
		Mail:          mail,
		Log:           logger,
		SiteName:      siteName,
		FeedbackInbox: feedbackInbox,
		sanitize:      bluemonday.StrictPolicy(),
	}
}
