// internal/app/features/users/register.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/fieldpolicy"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Role               string `json:"role"`
	Name               string `json:"name"`
	Designation        string `json:"designation"`
	Gender             string `json:"gender"`
	DateOfBirth        string `json:"dateOfBirth"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
	BloodGroup         string `json:"bloodGroup"`
	Address            string `json:"address"`
	City               string `json:"city"`
	District           string `json:"district"`
	State              string `json:"state"`
	Country            string `json:"country"`
	RegistrationNumber string `json:"registrationNumber"`
	Password           string `json:"password"`
}

func (req *registerRequest) presentFields() map[string]bool {
	return map[string]bool{
		"name":               strings.TrimSpace(req.Name) != "",
		"email":              strings.TrimSpace(req.Email) != "",
		"mobile":             strings.TrimSpace(req.Mobile) != "",
		"password":           req.Password != "",
		"address":            strings.TrimSpace(req.Address) != "",
		"city":               strings.TrimSpace(req.City) != "",
		"district":           strings.TrimSpace(req.District) != "",
		"state":              strings.TrimSpace(req.State) != "",
		"country":            strings.TrimSpace(req.Country) != "",
		"gender":             strings.TrimSpace(req.Gender) != "",
		"dateOfBirth":        strings.TrimSpace(req.DateOfBirth) != "",
		"bloodGroup":         strings.TrimSpace(req.BloodGroup) != "",
		"registrationNumber": strings.TrimSpace(req.RegistrationNumber) != "",
	}
}

// HandleRegister creates an account. The role decides which profile
// fields are required; coordinates are always resolved server-side and
// registration fails when the address cannot be geocoded. Duplicate
// emails are decided by the unique index.
//
// POST /users/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	if !models.IsValidRole(req.Role) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("role must be one of "+strings.Join(models.Roles, ", ")))
		return
	}
	if missing := fieldpolicy.MissingUserFields(req.Role, req.presentFields()); len(missing) > 0 {
		httpapi.WriteError(w, h.Log, httpapi.Validation("missing required fields: "+strings.Join(missing, ", ")))
		return
	}
	if err := fieldpolicy.ValidateEmailSyntax(strings.TrimSpace(req.Email)); err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation(err.Error()))
		return
	}
	if req.BloodGroup != "" && !models.IsValidBloodGroup(req.BloodGroup) {
		httpapi.WriteError(w, h.Log, httpapi.Validation("blood group must be one of "+strings.Join(models.BloodGroups, ", ")))
		return
	}
	dob, err := parseDateOfBirth(strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation("dateOfBirth must be YYYY-MM-DD"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	pt, err := h.Geo.Resolve(ctx, geocode.Address{
		City:     req.City,
		District: req.District,
		State:    req.State,
		Country:  req.Country,
	})
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.Validation("could not determine location coordinates"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Upstream("geocoding service unavailable", err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Internal("hash password", err))
		return
	}

	user := models.User{
		Role:               req.Role,
		Name:               req.Name,
		Designation:        strings.TrimSpace(req.Designation),
		Gender:             req.Gender,
		DateOfBirth:        dob,
		Email:              req.Email,
		Mobile:             strings.TrimSpace(req.Mobile),
		BloodGroup:         req.BloodGroup,
		Address:            strings.TrimSpace(req.Address),
		City:               strings.TrimSpace(req.City),
		District:           strings.TrimSpace(req.District),
		State:              strings.TrimSpace(req.State),
		Country:            strings.TrimSpace(req.Country),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Latitude:           pt.Latitude,
		Longitude:          pt.Longitude,
		PasswordHash:       string(hash),
	}

	created, err := h.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpapi.WriteError(w, h.Log, httpapi.Conflict("a user with this email already exists"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("create user", err))
		return
	}

	h.Log.Info("user registered",
		zap.String("role", created.Role),
		zap.String("email", created.Email))
	httpapi.WriteJSON(w, http.StatusCreated, "User registered successfully", created)
}
