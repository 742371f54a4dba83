package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	BookingsCollection      *mongo.Collection
	HotelsCollection        *mongo.Collection
	ChatsCollection         *mongo.Collection
	RegistrationsCollection *mongo.Collection
)

// Connect dials MongoDB, verifies the connection and binds the collections.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	d := client.Database(database)
	UserCollection = d.Collection("users")
	BookingsCollection = d.Collection("bookings")
	HotelsCollection = d.Collection("hotels")
	ChatsCollection = d.Collection("chats")
	RegistrationsCollection = d.Collection("registrations")

	log.Printf("Connected to MongoDB database %q", database)
	return client, nil
}

// CreateIndexes sets up the unique and sort indexes the services rely on.
func CreateIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{BookingsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "bookingDate", Value: -1}}},
		}},
		{HotelsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "rating", Value: -1}}},
		}},
		{UserCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{ChatsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{RegistrationsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "registrationDate", Value: -1}}},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}
