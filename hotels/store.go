package hotels

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows a hotel listing. Empty fields match everything.
type Filter struct {
	Type   string
	Search string
}

// Matches reports whether h passes the filter: exact type, and a
// case-insensitive substring of name, location or description.
func (f Filter) Matches(h models.Hotel) bool {
	if f.Type != "" && h.Type != f.Type {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(h.Name), q) ||
		strings.Contains(strings.ToLower(h.Location), q) ||
		strings.Contains(strings.ToLower(h.Description), q)
}

// BSON is the MongoDB equivalent of Matches. The search text is quoted so it
// is matched literally.
func (f Filter) BSON() bson.M {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"location": re},
			bson.M{"description": re},
		}
	}
	return filter
}

type Store interface {
	List(ctx context.Context, f Filter) ([]models.Hotel, error)
	Get(ctx context.Context, id string) (*models.Hotel, error)
	Insert(ctx context.Context, h *models.Hotel) error
	UpdateRating(ctx context.Context, id string, rating float64) (*models.Hotel, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

var errHotelNotFound = errs.E(errs.ErrNotFound, "Hotel not found")

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Hotel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	cur, err := s.coll.Find(ctx, f.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find hotels: %v", errs.ErrStorage, err)
	}
	hotels := []models.Hotel{}
	if err := cur.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("%w: decode hotels: %v", errs.ErrStorage, err)
	}
	return hotels, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errHotelNotFound
	}
	var h models.Hotel
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find hotel: %v", errs.ErrStorage, err)
	}
	return &h, nil
}

func (s *MongoStore) Insert(ctx context.Context, h *models.Hotel) error {
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, h); err != nil {
		return fmt.Errorf("%w: insert hotel: %v", errs.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) UpdateRating(ctx context.Context, id string, rating float64) (*models.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errHotelNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var h models.Hotel
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"rating": rating}}, opts).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update rating: %v", errs.ErrStorage, err)
	}
	return &h, nil
}
