// internal/app/features/otp/handler.go
package otp

import (
	"context"

	resetcodes "github.com/bloodlinkhq/bloodlink/internal/app/store/resetcodes"
	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Sender is the slice of the mailer this feature needs.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

type Handler struct {
	Users *userstore.Store
	Codes *resetcodes.Store
	Mail  Sender
	Log   *zap.Logger

	// SiteName appears in reset emails.
	SiteName string
}

func NewHandler(db *mongo.Database, codes *resetcodes.Store, mail Sender, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Codes:    codes,
		Mail:     mail,
		Log:      logger,
		SiteName: siteName,
	}
}
