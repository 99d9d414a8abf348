// internal/app/features/camps/update.go
package camps

import (
	"context"
	"errors"
	"net/http"
	"strings"

	campstore "github.com/bloodlinkhq/bloodlink/internal/app/store/camps"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// updateCampRequest is a partial patch keyed by the camp's _id. Pointer
// fields distinguish "absent" from "set to empty"; absent fields keep the
// stored values.
type updateCampRequest struct {
	ID string `json:"_id"`

	CampName         *string           `json:"campName"`
	OrganizerName    *string           `json:"organizerName"`
	OrganizerType    *string           `json:"organizerType"`
	OrganizerContact *string           `json:"organizerContact"`
	OrganizerEmail   *string           `json:"organizerEmail"`
	Collaborators    *collaboratorList `json:"collaborators"`

	OrganizingDate *string `json:"organizingDate"`
	StartTime      *string `json:"startTime"`
	EndTime        *string `json:"endTime"`

	Address  *string `json:"address"`
	City     *string `json:"city"`
	District *string `json:"district"`
	State    *string `json:"state"`
	Country  *string `json:"country"`

	CampDetails *string `json:"campDetails"`
}

func (req *updateCampRequest) touchesLocation(c *models.BloodCamp) bool {
	changed := func(p *string, cur string) bool { return p != nil && *p != cur }
	return changed(req.Address, c.Address) ||
		changed(req.City, c.City) ||
		changed(req.District, c.District) ||
		changed(req.State, c.State) ||
		changed(req.Country, c.Country)
}

// HandleUpdateCamp applies a partial update to an existing camp. Unlike
// registration, only what the patch touches is re-validated: a touched
// start or end time revalidates the merged pair, and a touched location
// field re-geocodes the merged address. The full draft checks (future
// date, required fields) are not re-run.
func (h *Handler) HandleUpdateCamp(w http.ResponseWriter, r *http.Request) {
	var req updateCampRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid camp id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	c, err := h.Camps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, campstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("camp not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("loading camp", err))
		return
	}

	relocate := req.touchesLocation(c)
	retime := req.StartTime != nil || req.EndTime != nil
	redate := req.OrganizingDate != nil

	apply := func(p *string, dst *string) {
		if p != nil {
			*dst = *p
		}
	}
	apply(req.CampName, &c.CampName)
	apply(req.OrganizerName, &c.OrganizerName)
	apply(req.OrganizerContact, &c.OrganizerContact)
	apply(req.OrganizerEmail, &c.OrganizerEmail)
	apply(req.StartTime, &c.StartTime)
	apply(req.EndTime, &c.EndTime)
	apply(req.Address, &c.Address)
	apply(req.City, &c.City)
	apply(req.District, &c.District)
	apply(req.State, &c.State)
	apply(req.Country, &c.Country)

	if req.OrganizerType != nil {
		if !models.IsValidOrganizerType(*req.OrganizerType) {
			httpapi.WriteError(w, h.Log, httpapi.Validation("invalid organizer type"))
			return
		}
		c.OrganizerType = *req.OrganizerType
	}
	if req.Collaborators != nil {
		c.Collaborators = normalize.Collaborators([]string(*req.Collaborators), "")
	}
	if req.CampDetails != nil {
		if len(*req.CampDetails) > models.MaxCampDetailsLen {
			httpapi.WriteError(w, h.Log, httpapi.Validation("camp details are too long"))
			return
		}
		c.CampDetails = h.sanitize.Sanitize(*req.CampDetails)
	}
	if req.CampName != nil {
		c.CampName = strings.TrimSpace(c.CampName)
		if c.CampName == "" || len(c.CampName) > models.MaxCampNameLen {
			httpapi.WriteError(w, h.Log, httpapi.Validation("invalid camp name"))
			return
		}
	}
	if req.OrganizerContact != nil {
		if err := fieldpolicy.ValidateContact(c.OrganizerContact); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
			return
		}
	}
	if req.OrganizerEmail != nil {
		if err := fieldpolicy.ValidateEmailSyntax(c.OrganizerEmail); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
			return
		}
	}
	if redate {
		date, err := parseOrganizingDate(*req.OrganizingDate)
		if err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation("organizingDate must be YYYY-MM-DD"))
			return
		}
		c.OrganizingDate = date
	}
	if retime {
		if err := fieldpolicy.ValidateTimePair(c.StartTime, c.EndTime); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
			return
		}
	}

	if relocate {
		pt, err := h.Geo.Resolve(ctx, geocode.Address{
			Address:  c.Address,
			City:     c.City,
			District: c.District,
			State:    c.State,
			Country:  c.Country,
		})
		if err != nil {
			if errors.Is(err, geocode.ErrNotFound) {
				httpapi.WriteError(w, h.Log, httpapi.Validation("could not determine location coordinates for the given address"))
				return
			}
			httpapi.WriteError(w, h.Log, httpapi.Upstream("geocoding service unavailable", err))
			return
		}
		c.Latitude = pt.Latitude
		c.Longitude = pt.Longitude
	}

	updated, err := h.Camps.Update(ctx, id, *c)
	if err != nil {
		switch {
		case errors.Is(err, campstore.ErrNotFound):
			httpapi.WriteError(w, h.Log, httpapi.NotFound("camp not found"))
		case errors.Is(err, campstore.ErrDuplicateCamp):
			httpapi.WriteError(w, h.Log, httpapi.Conflict("a camp with this name is already registered on that date"))
		default:
			httpapi.WriteError(w, h.Log, httpapi.Internal("updating camp", err))
		}
		return
	}

	h.Log.Info("camp updated",
		zap.String("camp", updated.CampName),
		zap.Bool("relocated", relocate),
	)
	httpapi.WriteJSON(w, http.StatusOK, "Camp updated successfully", updated)
}
