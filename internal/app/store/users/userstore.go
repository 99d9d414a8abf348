package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/system/normalize"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when the email already belongs to a user.
	// The unique index is the arbiter; concurrent registrations race there,
	// not at a pre-check.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	errBadRole  = errors.New(`role must be "Donor"|"Recipient"|"Hospital"|"Organization"|"Admin"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// projectionNoCredentials strips the password hash at the query level so
// list results never carry it, even before JSON marshaling drops it.
var projectionNoCredentials = bson.M{"password_hash": 0}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmailAndRole loads the user matching both email and role. Login
// resolves credentials through this pair, so the same email can never
// authenticate into a different role than it registered with.
func (s *Store) GetByEmailAndRole(ctx context.Context, email, role string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email), "role": role}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing fields. The caller is
// responsible for role-conditioned required-field validation and for
// hashing the password.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Designation == "" {
		u.Designation = models.DefaultDesignation(u.Role)
	}

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile replaces the mutable profile fields with the merged
// record the caller assembled (patch over existing, re-geocoded when a
// location field changed). Role, email, credentials, and the blocked
// flag are not touched here.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.User) error {
	set := bson.M{
		"name":        normalize.Name(u.Name),
		"designation": u.Designation,
		"mobile":      u.Mobile,
		"gender":      u.Gender,
		"blood_group": u.BloodGroup,
		"address":     u.Address,
		"city":        u.City,
		"district":    u.District,
		"state":       u.State,
		"country":     u.Country,
		"latitude":    u.Latitude,
		"longitude":   u.Longitude,
		"updated_at":  time.Now(),
	}
	if u.DateOfBirth != nil {
		set["date_of_birth"] = *u.DateOfBirth
	}
	if u.RegistrationNumber != "" {
		set["registration_number"] = u.RegistrationNumber
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBlocked flips the account-disablement flag, keyed by email.
// Idempotent: blocking a blocked user matches and succeeds.
func (s *Store) SetBlocked(ctx context.Context, email string, blocked bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"is_blocked": blocked, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the credential for the given email.
func (s *Store) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRole returns every user of a role, credentials excluded at the
// projection level.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"role": role},
		options.Find().SetProjection(projectionNoCredentials).SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
