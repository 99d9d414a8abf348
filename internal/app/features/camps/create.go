// internal/app/features/camps/create.go
package camps

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	campstore "github.com/bloodlinkhq/bloodlink/internal/app/store/camps"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.uber.org/zap"
)

type createCampRequest struct {
	CampName         string `json:"campName"`
	OrganizerName    string `json:"organizerName"`
	OrganizerType    string `json:"organizerType"`
	OrganizerContact string `json:"organizerContact"`
	OrganizerEmail   string `json:"organizerEmail"`

	// Accepted either as a JSON array or a comma-separated string.
	Collaborators collaboratorList `json:"collaborators"`

	OrganizingDate string `json:"organizingDate"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`

	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Country  string `json:"country"`

	CampDetails string `json:"campDetails"`
}

func (req *createCampRequest) presentFields() map[string]bool {
	return map[string]bool{
		"campName":         strings.TrimSpace(req.CampName) != "",
		"organizerName":    strings.TrimSpace(req.OrganizerName) != "",
		"organizerType":    strings.TrimSpace(req.OrganizerType) != "",
		"organizerContact": strings.TrimSpace(req.OrganizerContact) != "",
		"organizerEmail":   strings.TrimSpace(req.OrganizerEmail) != "",
		"organizingDate":   strings.TrimSpace(req.OrganizingDate) != "",
		"startTime":        strings.TrimSpace(req.StartTime) != "",
		"endTime":          strings.TrimSpace(req.EndTime) != "",
		"address":          strings.TrimSpace(req.Address) != "",
		"city":             strings.TrimSpace(req.City) != "",
		"state":            strings.TrimSpace(req.State) != "",
	}
}

// HandleRegisterCamp validates the full camp draft and persists it.
// Hospital and Organization accounts only (route-guarded). The date must
// be strictly in the future, the time pair well-ordered, and the venue
// geocodable; a duplicate (campName, organizingDate) pair is a conflict.
func (h *Handler) HandleRegisterCamp(w http.ResponseWriter, r *http.Request) {
	var req createCampRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	if missing := fieldpolicy.MissingCampFields(req.presentFields()); len(missing) > 0 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("missing required fields: "+strings.Join(missing, ", ")))
		return
	}
	if !models.IsValidOrganizerType(req.OrganizerType) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid organizer type"))
		return
	}
	if len(req.CampName) > models.MaxCampNameLen {
		httpapi.WriteError(w, h.Log, httpapi.Validation("camp name is too long"))
		return
	}
	if len(req.CampDetails) > models.MaxCampDetailsLen {
		httpapi.WriteError(w, h.Log, httpapi.Validation("camp details are too long"))
		return
	}
	if err := fieldpolicy.ValidateContact(req.OrganizerContact); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}
	if err := fieldpolicy.ValidateEmailSyntax(req.OrganizerEmail); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}
	if err := fieldpolicy.ValidateTimePair(req.StartTime, req.EndTime); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}

	date, err := parseOrganizingDate(req.OrganizingDate)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation("organizingDate must be YYYY-MM-DD"))
		return
	}
	// Strictly future: a camp cannot be scheduled for today or earlier.
	// Dates parse as UTC midnight, so "today" is the current UTC date;
	// comparing in UTC keeps the rule independent of server timezone.
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("organizing date must be in the future"))
		return
	}

	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = h.DefaultCountry
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	pt, err := h.Geo.Resolve(ctx, geocode.Address{
		Address:  req.Address,
		City:     req.City,
		District: req.District,
		State:    req.State,
		Country:  country,
	})
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.Validation("could not determine location coordinates for the given address"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Upstream("geocoding service unavailable", err))
		return
	}

	camp, err := h.Camps.Create(ctx, models.BloodCamp{
		CampName:         strings.TrimSpace(req.CampName),
		OrganizerName:    req.OrganizerName,
		OrganizerType:    req.OrganizerType,
		OrganizerContact: req.OrganizerContact,
		OrganizerEmail:   req.OrganizerEmail,
		Collaborators:    normalize.Collaborators(req.Collaborators, ""),
		OrganizingDate:   date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Address:          req.Address,
		City:             req.City,
		District:         req.District,
		State:            req.State,
		Country:          country,
		Latitude:         pt.Latitude,
		Longitude:        pt.Longitude,
		CampDetails:      h.sanitize.Sanitize(req.CampDetails),
	})
	if err != nil {
		if errors.Is(err, campstore.ErrDuplicateCamp) {
			httpapi.WriteError(w, h.Log, httpapi.Conflict("a camp with this name is already registered on that date"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("registering camp", err))
		return
	}

	h.Log.Info("camp registered",
		zap.String("camp", camp.CampName),
		zap.Time("date", camp.OrganizingDate),
		zap.String("organizer", camp.OrganizerEmail),
	)
	httpapi.WriteJSON(w, http.StatusCreated, "Camp registered successfully", camp)
}
