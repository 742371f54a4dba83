package chat

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
	Insert(ctx context.Context, c *models.ChatEntry) error
	FindByUser(ctx context.Context, userID string, limit int64) ([]models.ChatEntry, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, c *models.ChatEntry) error {
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: chat %s already saved", errs.ErrConflict, c.ID)
		}
		return fmt.Errorf("%w: insert chat: %v", errs.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string, limit int64) ([]models.ChatEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find chats: %v", errs.ErrStorage, err)
	}
	chats := []models.ChatEntry{}
	if err := cur.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("%w: decode chats: %v", errs.ErrStorage, err)
	}
	return chats, nil
}
