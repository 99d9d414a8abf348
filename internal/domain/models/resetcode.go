// internal/domain/models/resetcode.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordResetCode is a one-time 6-digit code issued by the
// forgot-password flow. Each request inserts a fresh row; earlier rows for
// the same email stay valid until one is consumed, at which point every
// row for that email is purged. A TTL index reaps expired rows.
type PasswordResetCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"` // lowercase
	Code      string             `bson:"code"`  // 6 digits
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}
