// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with sensible defaults for the role. The
// password for every fixture user is "password123".
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hashing fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Role:         role,
		Name:         name,
		Designation:  models.DefaultDesignation(role),
		Email:        email,
		Mobile:       "9876543210",
		City:         "Pune",
		District:     "Pune",
		State:        "Maharashtra",
		Country:      "India",
		Latitude:     18.52,
		Longitude:    73.85,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if models.RequiresPersonalFields(role) {
		u.Gender = "Other"
		dob := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
		u.DateOfBirth = &dob
	}
	if models.RequiresBloodGroup(role) {
		u.BloodGroup = "O+"
	}
	if models.RequiresRegistrationNumber(role) {
		u.RegistrationNumber = "REG-0042"
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("creating fixture user: %v", err)
	}
	return u
}

// CreateCamp inserts a camp organized by the given email, scheduled for
// the given date.
func (f *Fixtures) CreateCamp(ctx context.Context, name, organizerEmail string, date time.Time) models.BloodCamp {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.BloodCamp{
		ID:               primitive.NewObjectID(),
		CampName:         name,
		OrganizerName:    "Test Organizer",
		OrganizerType:    "NGO",
		OrganizerContact: "9876543210",
		OrganizerEmail:   organizerEmail,
		Collaborators:    []string{},
		OrganizingDate:   date,
		StartTime:        "09:00",
		EndTime:          "17:00",
		Address:          "12 MG Road",
		City:             "Pune",
		State:            "Maharashtra",
		Country:          "India",
		Latitude:         18.52,
		Longitude:        73.85,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("camps").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("creating fixture camp: %v", err)
	}
	return c
}

// CreateResetCode inserts a password-reset code row directly, allowing
// expiry to be set in the past for negative tests.
func (f *Fixtures) CreateResetCode(ctx context.Context, email, code string, expiresAt time.Time) models.PasswordResetCode {
	f.t.Helper()

	rc := models.PasswordResetCode{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("password_reset_codes").InsertOne(ctx, rc); err != nil {
		f.t.Fatalf("creating fixture reset code: %v", err)
	}
	return rc
}
