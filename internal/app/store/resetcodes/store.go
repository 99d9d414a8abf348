// internal/app/store/resetcodes/store.go
package resetcodes

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// CodeLength is the length of the reset code (6 digits).
	CodeLength = 6
	// DefaultExpiry is how long a reset code is valid.
	DefaultExpiry = 10 * time.Minute
)

// ErrInvalidOrExpired is returned when no live (email, code) row matches.
// Wrong code, unknown email, and expired code are deliberately
// indistinguishable to the caller.
var ErrInvalidOrExpired = errors.New("invalid or expired reset code")

// Store manages password-reset codes. Each forgot-password request
// inserts a fresh row and leaves earlier rows live — any one of them can
// reset the password, and consumption purges all of them. A TTL index
// (see indexes.EnsureAll) reaps expired rows in the background; Consume
// still checks expiry itself so reaping lag cannot extend a code's life.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the given expiry; zero or negative means
// DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection("password_reset_codes"), expiry: expiry}
}

// Expiry returns the configured code lifetime.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Issue generates a 6-digit code for the email and persists it. Earlier
// codes for the same email are not invalidated.
func (s *Store) Issue(ctx context.Context, email string) (models.PasswordResetCode, error) {
	now := time.Now()
	rec := models.PasswordResetCode{
		ID:        primitive.NewObjectID(),
		Email:     normalize.Email(email),
		Code:      generateCode(),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.PasswordResetCode{}, fmt.Errorf("insert reset code: %w", err)
	}
	return rec, nil
}

// Consume verifies an (email, code) pair against the live rows and, on
// success, purges every row for that email so no code survives a reset —
// including duplicates issued by concurrent requests.
func (s *Store) Consume(ctx context.Context, email, code string) error {
	email = normalize.Email(email)
	err := s.c.FindOne(ctx, bson.M{
		"email":      email,
		"code":       code,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInvalidOrExpired
		}
		return err
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("purge reset codes: %w", err)
	}
	return nil
}

// generateCode returns a random 6-digit numeric code. Panics if the
// system's cryptographic random number generator fails.
func generateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	code := (n % 900000) + 100000
	return fmt.Sprintf("%06d", code)
}
