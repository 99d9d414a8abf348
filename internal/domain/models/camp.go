// internal/domain/models/camp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organizer types a camp may declare.
var OrganizerTypes = []string{"NGO", "Hospital", "Government", "Corporate", "Educational", "Other"}

// IsValidOrganizerType reports whether t is a known organizer type.
func IsValidOrganizerType(t string) bool {
	for _, v := range OrganizerTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Field length limits enforced at the boundary.
const (
	MaxCampNameLen    = 100
	MaxCampDetailsLen = 500
)

// BloodCamp is a scheduled, location-bound donation event.
//
// OrganizerEmail is a soft reference to User.Email: the platform joins the
// two by value (e.g. "my camps") and never assumes a user record still
// exists for it. No two camps share the same (CampName, OrganizingDate)
// pair; a unique compound index is the arbiter, not the pre-check.
type BloodCamp struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	CampName string `bson:"camp_name" json:"campName"`

	OrganizerName    string   `bson:"organizer_name" json:"organizerName"`
	OrganizerType    string   `bson:"organizer_type" json:"organizerType"`
	OrganizerContact string   `bson:"organizer_contact" json:"organizerContact"` // 10-15 digits
	OrganizerEmail   string   `bson:"organizer_email" json:"organizerEmail"`     // lowercase
	Collaborators    []string `bson:"collaborators" json:"collaborators"`

	OrganizingDate time.Time `bson:"organizing_date" json:"organizingDate"`
	StartTime      string    `bson:"start_time" json:"startTime"` // "HH:MM"
	EndTime        string    `bson:"end_time" json:"endTime"`     // "HH:MM", after StartTime

	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	State    string `bson:"state" json:"state"`
	Country  string `bson:"country" json:"country"`

	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`

	CampDetails string `bson:"camp_details,omitempty" json:"campDetails,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
