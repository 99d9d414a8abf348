// internal/app/features/camps/handler.go
package camps

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	campstore "github.com/bloodlinkhq/bloodlink/internal/app/store/camps"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/matcher"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Geocoder resolves a camp's venue address to coordinates. Camp writes
// are rejected when resolution fails; placeholder coordinates are never
// persisted.
type Geocoder interface {
	Resolve(ctx context.Context, addr geocode.Address) (geocode.Point, error)
}

// Matcher forwards validated location payloads to the external
// nearby-camp ranking service.
type Matcher interface {
	MatchCamps(ctx context.Context, payload interface{}, bearerToken string) (json.RawMessage, error)
}

type Handler struct {
	Camps *campstore.Store
	Geo   Geocoder
	Match Matcher
	Log   *zap.Logger

	// DefaultCountry fills the country field when the organizer omits it.
	DefaultCountry string

	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, geo Geocoder, match *matcher.Client, defaultCountry string, logger *zap.Logger) *Handler {
	return &Handler{
		Camps:          campstore.New(db),
		Geo:            geo,
		Match:          match,
		Log:            logger,
		DefaultCountry: defaultCountry,
		sanitize:       bluemonday.StrictPolicy(),
	}
}

// dateOnly is the accepted wire format for organizingDate.
const dateOnly = "2006-01-02"

func parseOrganizingDate(s string) (time.Time, error) {
	return time.Parse(dateOnly, s)
}

// collaboratorList decodes the collaborators field, which clients send
// either as a JSON array of names or as one comma-separated string.
type collaboratorList []string

func (c *collaboratorList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("collaborators must be a list of names or a comma-separated string")
	}
	*c = normalize.Collaborators(nil, raw)
	return nil
}
