package campstore

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
	// ErrDuplicateCamp is returned when a camp with the same name and date
	// already exists. The unique compound index is the arbiter, so two
	// concurrent creations cannot both land.
	ErrDuplicateCamp = errors.New("a camp with this name and date already exists")
	// ErrNotFound is returned when no camp matches the id.
	ErrNotFound = errors.New("camp not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("camps")}
}

// GetByID loads a camp by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BloodCamp, error) {
	var c models.BloodCamp
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new camp after normalizing organizer fields. The
// caller has already validated required fields, times, the future date,
// and coordinates.
func (s *Store) Create(ctx context.Context, c models.BloodCamp) (models.BloodCamp, error) {
	c.ID = primitive.NewObjectID()
	c.CampName = normalize.Name(c.CampName)
	c.OrganizerName = normalize.TitleCase(c.OrganizerName)
	c.OrganizerEmail = normalize.Email(c.OrganizerEmail)
	if c.Collaborators == nil {
		c.Collaborators = []string{}
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BloodCamp{}, ErrDuplicateCamp
		}
		return models.BloodCamp{}, err
	}
	return c, nil
}

// List returns all camps ordered by ascending organizing date, soonest
// first. No pagination at this layer; callers filter client-side.
func (s *Store) List(ctx context.Context) ([]models.BloodCamp, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "organizing_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	camps := []models.BloodCamp{}
	if err := cur.All(ctx, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

// ListByOrganizerEmail returns the camps whose organizer email matches,
// soonest first. This is the application-level join behind "my camps";
// organizer email is a soft reference to a user, not a foreign key.
func (s *Store) ListByOrganizerEmail(ctx context.Context, email string) ([]models.BloodCamp, error) {
	cur, err := s.c.Find(ctx, bson.M{"organizer_email": normalize.Email(email)},
		options.Find().SetSort(bson.D{{Key: "organizing_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	camps := []models.BloodCamp{}
	if err := cur.All(ctx, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

// Update replaces the camp's fields with the merged record the caller
// assembled (patch with fallback to existing values, time pair
// re-validated, re-geocoded when a location field was touched).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, c models.BloodCamp) (models.BloodCamp, error) {
	set := bson.M{
		"camp_name":         normalize.Name(c.CampName),
		"organizer_name":    normalize.TitleCase(c.OrganizerName),
		"organizer_type":    c.OrganizerType,
		"organizer_contact": c.OrganizerContact,
		"organizer_email":   normalize.Email(c.OrganizerEmail),
		"collaborators":     c.Collaborators,
		"organizing_date":   c.OrganizingDate,
		"start_time":        c.StartTime,
		"end_time":          c.EndTime,
		"address":           c.Address,
		"city":              c.City,
		"district":          c.District,
		"state":             c.State,
		"country":           c.Country,
		"latitude":          c.Latitude,
		"longitude":         c.Longitude,
		"camp_details":      c.CampDetails,
		"updated_at":        time.Now(),
	}

	res := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated models.BloodCamp
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.BloodCamp{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.BloodCamp{}, ErrDuplicateCamp
		}
		return models.BloodCamp{}, err
	}
	return updated, nil
}

// Delete removes a camp and returns the deleted record's identifying
// fields for confirmation.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.BloodCamp, error) {
	res := s.c.FindOneAndDelete(ctx, bson.M{"_id": id})

	var deleted models.BloodCamp
	if err := res.Decode(&deleted); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &deleted, nil
}
