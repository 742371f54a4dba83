package events

import (
	"context"
	"fmt"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Insert(ctx context.Context, reg *models.Registration) error
	FindByUser(ctx context.Context, userID string) ([]models.Registration, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, reg *models.Registration) error {
	if _, err := s.coll.InsertOne(ctx, reg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: registration %s already exists", errs.ErrConflict, reg.ID)
		}
		return fmt.Errorf("%w: insert registration: %v", errs.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find registrations: %v", errs.ErrStorage, err)
	}
	regs := []models.Registration{}
	if err := cur.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("%w: decode registrations: %v", errs.ErrStorage, err)
	}
	return regs, nil
}
