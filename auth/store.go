package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) Insert(ctx context.Context, u *models.User) error {
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.E(errs.ErrConflict, "User already exists")
		}
		return fmt.Errorf("%w: insert user: %v", errs.ErrStorage, err)
	}
	return nil
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.E(errs.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", errs.ErrStorage, err)
	}
	return &u, nil
}

func (s *MongoUserStore) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": bson.M{"last_login": at}})
	if err != nil {
		return fmt.Errorf("%w: update last login: %v", errs.ErrStorage, err)
	}
	return nil
}
