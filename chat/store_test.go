package chat

import (
	"context"
	"errors"
	"testing"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert failure is a storage error", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))
		err := store.Insert(context.Background(), &models.ChatEntry{ID: "c1", UserID: "u1"})
		if !errors.Is(err, errs.ErrStorage) {
			mt.Fatalf("expected ErrStorage, got %v", err)
		}
	})

	mt.Run("find by user", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tourguide.chats", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "c2"}, {Key: "userId", Value: "u1"}, {Key: "userMessage", Value: "hi"}},
			bson.D{{Key: "id", Value: "c1"}, {Key: "userId", Value: "u1"}, {Key: "userMessage", Value: "hello"}},
		))
		chats, err := store.FindByUser(context.Background(), "u1", 10)
		if err != nil {
			mt.Fatal(err)
		}
		if len(chats) != 2 || chats[0].ID != "c2" {
			mt.Fatalf("unexpected chats %+v", chats)
		}
	})
}
