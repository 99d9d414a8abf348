// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/matcher"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Geocoder is the slice of the geocoding adapter this feature needs.
// Registration and profile updates resolve coordinates through it and
// reject the operation when it fails; placeholder coordinates are never
// persisted.
type Geocoder interface {
	Resolve(ctx context.Context, addr geocode.Address) (geocode.Point, error)
}

// Matcher forwards validated recipient payloads to the external donor
// matching service.
type Matcher interface {
	MatchDonors(ctx context.Context, payload interface{}) (json.RawMessage, error)
}

type Handler struct {
	Users  *userstore.Store
	Geo    Geocoder
	Tokens *auth.Manager
	Match  Matcher
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, geo Geocoder, tokens *auth.Manager, match *matcher.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Geo:    geo,
		Tokens: tokens,
		Match:  match,
		Log:    logger,
	}
}

// dateOnly is the accepted wire format for dateOfBirth.
const dateOnly = "2006-01-02"

func parseDateOfBirth(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
