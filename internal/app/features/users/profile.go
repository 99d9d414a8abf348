// internal/app/features/users/profile.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCurrentUser returns the signed-in user's full profile. The
// record is re-read from the database so a block applied after the
// token was issued still takes effect.
func (h *Handler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	tu, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("authentication required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(tu.ID)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("invalid token subject"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("user not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("loading profile", err))
		return
	}
	if u.IsBlocked {
		httpapi.WriteError(w, h.Log, httpapi.Forbidden("your account has been blocked; contact the administrator"))
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, "", u)
}

// updateRequest carries a partial profile patch. Pointer fields
// distinguish "absent" from "set to empty"; absent fields keep their
// stored values.
type updateRequest struct {
	Name               *string `json:"name"`
	Designation        *string `json:"designation"`
	Gender             *string `json:"gender"`
	DateOfBirth        *string `json:"dateOfBirth"`
	Mobile             *string `json:"mobile"`
	BloodGroup         *string `json:"bloodGroup"`
	RegistrationNumber *string `json:"registrationNumber"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	District           *string `json:"district"`
	State              *string `json:"state"`
	Country            *string `json:"country"`
}

// touchesLocation reports whether the patch changes any field that feeds
// the geocoder.
func (req *updateRequest) touchesLocation(u *models.User) bool {
	changed := func(p *string, cur string) bool { return p != nil && *p != cur }
	return changed(req.City, u.City) ||
		changed(req.District, u.District) ||
		changed(req.State, u.State) ||
		changed(req.Country, u.Country)
}

// HandleUpdateUser applies a partial profile update for the signed-in
// user. Coordinates are re-resolved only when a location field actually
// changed; an unrelated edit never risks an upstream geocoding failure.
// Role, email, and password are never touched here.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	tu, ok := auth.CurrentUser(r)
	if !ok {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("authentication required"))
		return
	}
	id, err := primitive.ObjectIDFromHex(tu.ID)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Unauthorized("invalid token subject"))
		return
	}

	var req updateRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("user not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("loading profile", err))
		return
	}
	if u.IsBlocked {
		httpapi.WriteError(w, h.Log, httpapi.Forbidden("your account has been blocked; contact the administrator"))
		return
	}

	relocate := req.touchesLocation(u)

	apply := func(p *string, dst *string) {
		if p != nil {
			*dst = *p
		}
	}
	apply(req.Name, &u.Name)
	apply(req.Designation, &u.Designation)
	apply(req.Gender, &u.Gender)
	apply(req.Mobile, &u.Mobile)
	apply(req.Address, &u.Address)
	apply(req.City, &u.City)
	apply(req.District, &u.District)
	apply(req.State, &u.State)
	apply(req.Country, &u.Country)
	apply(req.RegistrationNumber, &u.RegistrationNumber)

	if req.BloodGroup != nil {
		if !models.IsValidBloodGroup(*req.BloodGroup) {
			httpapi.WriteError(w, h.Log, httpapi.Validation("invalid blood group"))
			return
		}
		u.BloodGroup = *req.BloodGroup
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		if err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation("dateOfBirth must be YYYY-MM-DD"))
			return
		}
		u.DateOfBirth = dob
	}
	if req.Mobile != nil {
		if err := fieldpolicy.ValidateContact(u.Mobile); err != nil {
			httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
			return
		}
	}

	if relocate {
		pt, err := h.Geo.Resolve(ctx, geocode.Address{
			City:     u.City,
			District: u.District,
			State:    u.State,
			Country:  u.Country,
		})
		if err != nil {
			if errors.Is(err, geocode.ErrNotFound) {
				httpapi.WriteError(w, h.Log, httpapi.Validation("could not determine location coordinates for the given address"))
				return
			}
			httpapi.WriteError(w, h.Log, httpapi.Upstream("geocoding service unavailable", err))
			return
		}
		u.Latitude = pt.Latitude
		u.Longitude = pt.Longitude
	}

	if err := h.Users.UpdateProfile(ctx, id, *u); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("user not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("updating profile", err))
		return
	}

	h.Log.Info("profile updated",
		zap.String("email", u.Email),
		zap.Bool("relocated", relocate),
	)

	httpapi.WriteJSON(w, http.StatusOK, "Profile updated successfully", u)
}
