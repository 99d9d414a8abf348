// internal/app/system/fieldpolicy/fieldpolicy.go

// Package fieldpolicy declares which fields each operation requires, so
// the create and update paths share one table instead of duplicating ad
// hoc checks. Creation enforces required-on-create; partial updates
// re-validate only the groups they touch (the time pair and the location
// group), which deliberately skips the rest of the draft validation.
package fieldpolicy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
)

var (
	timeRe    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	contactRe = regexp.MustCompile(`^[0-9]{10,15}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// UserRule names a profile field and the roles for which it is required.
type UserRule struct {
	Field    string
	Label    string
	Required func(role string) bool
}

func always(string) bool { return true }

// UserRules is the role-conditioned required-field table for registration.
var UserRules = []UserRule{
	{"name", "Name", always},
	{"email", "Email", always},
	{"mobile", "Mobile number", always},
	{"password", "Password", always},
	{"address", "Address", always},
	{"city", "City", always},
	{"district", "District", always},
	{"state", "State", always},
	{"country", "Country", always},
	{"gender", "Gender", models.RequiresPersonalFields},
	{"dateOfBirth", "Date of birth", models.RequiresPersonalFields},
	{"bloodGroup", "Blood group", models.RequiresBloodGroup},
	{"registrationNumber", "Registration number", models.RequiresRegistrationNumber},
}

// MissingUserFields returns the labels of required fields absent from the
// payload, given present[field] reporting which fields were supplied
// non-empty.
func MissingUserFields(role string, present map[string]bool) []string {
	var missing []string
	for _, rule := range UserRules {
		if rule.Required(role) && !present[rule.Field] {
			missing = append(missing, rule.Label)
		}
	}
	return missing
}

// CampRequired maps required-on-create camp payload fields to the labels
// reported when they are missing. District and country are optional.
var CampRequired = map[string]string{
	"campName":         "Camp name",
	"organizerName":    "Organizer name",
	"organizerType":    "Organizer type",
	"organizerContact": "Contact number",
	"organizerEmail":   "Organizer email",
	"organizingDate":   "Organizing date",
	"startTime":        "Start time",
	"endTime":          "End time",
	"address":          "Address",
	"city":             "City",
	"state":            "State",
}

// MissingCampFields returns the labels of required camp fields absent
// from the payload, in a stable order.
func MissingCampFields(present map[string]bool) []string {
	order := []string{
		"campName", "organizerName", "organizerType", "organizerContact",
		"organizerEmail", "organizingDate", "startTime", "endTime",
		"address", "city", "state",
	}
	var missing []string
	for _, f := range order {
		if !present[f] {
			missing = append(missing, CampRequired[f])
		}
	}
	return missing
}

// CampLocationFields is the field group whose touch triggers re-geocoding
// on update (and, for users, the profile fields that do the same).
var CampLocationFields = []string{"address", "city", "district", "state", "country"}

// ValidateTimePair checks both times are "HH:MM" and the end sorts after
// the start. Lexicographic order on zero-padded HH:MM equals
// chronological order within a day.
func ValidateTimePair(start, end string) error {
	if !timeRe.MatchString(start) {
		return fmt.Errorf("start time %q is not in HH:MM format", start)
	}
	if !timeRe.MatchString(end) {
		return fmt.Errorf("end time %q is not in HH:MM format", end)
	}
	if strings.Compare(end, start) <= 0 {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// ValidateContact checks a 10-15 digit numeric contact number.
func ValidateContact(contact string) error {
	if !contactRe.MatchString(contact) {
		return fmt.Errorf("%q is not a valid contact number", contact)
	}
	return nil
}

// ValidateEmailSyntax checks basic email shape. Uniqueness and existence
// are the store's business.
func ValidateEmailSyntax(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%q is not a valid email address", email)
	}
	return nil
}

// ValidateCoordinates bounds-checks a latitude/longitude pair.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range", lon)
	}
	return nil
}
