// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform roles. Role is fixed at registration and never changes.
const (
	RoleDonor        = "Donor"
	RoleRecipient    = "Recipient"
	RoleHospital     = "Hospital"
	RoleOrganization = "Organization"
	RoleAdmin        = "Admin"
)

// Roles lists every valid role value.
var Roles = []string{RoleDonor, RoleRecipient, RoleHospital, RoleOrganization, RoleAdmin}

// IsValidRole reports whether role is one of the platform roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// BloodGroups lists the eight ABO/Rh types.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsValidBloodGroup reports whether bg is one of the eight ABO/Rh types.
func IsValidBloodGroup(bg string) bool {
	for _, g := range BloodGroups {
		if g == bg {
			return true
		}
	}
	return false
}

// User represents a platform account: donors, recipients, hospitals,
// organizations, and admins. Which profile fields are required depends on
// the role; see fieldpolicy.
//
// PasswordHash carries the bcrypt hash and must never reach a response:
// it is excluded from JSON and only the store layer reads it.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role        string             `bson:"role" json:"role"`
	Name        string             `bson:"name" json:"name"`
	Designation string             `bson:"designation" json:"designation"`
	Email       string             `bson:"email" json:"email"` // unique, lowercase
	Mobile      string             `bson:"mobile" json:"mobile"`

	// Required unless role is Hospital or Organization.
	Gender      string     `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`

	// Required for Donor and Recipient.
	BloodGroup string `bson:"blood_group,omitempty" json:"bloodGroup,omitempty"`

	// Required for Hospital and Organization.
	RegistrationNumber string `bson:"registration_number,omitempty" json:"registrationNumber,omitempty"`

	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	District string `bson:"district" json:"district"`
	State    string `bson:"state" json:"state"`
	Country  string `bson:"country" json:"country"`

	// Geocoded from the address fields; always server-resolved.
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`

	PasswordHash string `bson:"password_hash" json:"-"`
	IsBlocked    bool   `bson:"is_blocked" json:"isBlocked"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// RequiresPersonalFields reports whether the role is an individual account
// that must supply gender and date of birth.
func RequiresPersonalFields(role string) bool {
	return role != RoleHospital && role != RoleOrganization
}

// RequiresBloodGroup reports whether the role must supply a blood group.
func RequiresBloodGroup(role string) bool {
	return role == RoleDonor || role == RoleRecipient
}

// RequiresRegistrationNumber reports whether the role is an institutional
// account that must supply a registration number.
func RequiresRegistrationNumber(role string) bool {
	return role == RoleHospital || role == RoleOrganization
}

// DefaultDesignation returns the designation applied when registration
// does not supply one.
func DefaultDesignation(role string) string {
	if role == RoleAdmin {
		return "BloodLink Admin"
	}
	return "BloodLink Member"
}
