package booking

import (
	"context"
	"errors"
	"fmt"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists bookings keyed by bookingId.
type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
	FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: booking %s already exists", errs.ErrConflict, b.BookingID)
		}
		return fmt.Errorf("%w: insert booking: %v", errs.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find bookings: %v", errs.ErrStorage, err)
	}
	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("%w: decode bookings: %v", errs.ErrStorage, err)
	}
	return bookings, nil
}

func (s *MongoStore) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.ErrNotFound, "Booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find booking: %v", errs.ErrStorage, err)
	}
	return &b, nil
}
