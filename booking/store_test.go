package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourguide/errs"
	"tourguide/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := store.Insert(context.Background(), &models.Booking{BookingID: "b1"}); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		err := store.Insert(context.Background(), &models.Booking{BookingID: "b1"})
		if !errors.Is(err, errs.ErrConflict) {
			mt.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))
		err := store.Insert(context.Background(), &models.Booking{BookingID: "b1"})
		if !errors.Is(err, errs.ErrStorage) {
			mt.Fatalf("expected ErrStorage, got %v", err)
		}
	})

	mt.Run("find by booking id", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		visit := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tourguide.bookings", mtest.FirstBatch, bson.D{
			{Key: "bookingId", Value: "b1"},
			{Key: "userId", Value: "u1"},
			{Key: "attractionName", Value: "Rajwada Palace"},
			{Key: "visitDate", Value: visit},
			{Key: "numberOfVisitors", Value: 2},
			{Key: "totalPrice", Value: 200.0},
			{Key: "status", Value: "confirmed"},
		}))
		b, err := store.FindByBookingID(context.Background(), "b1")
		if err != nil {
			mt.Fatal(err)
		}
		if b.AttractionName != "Rajwada Palace" || b.NumberOfVisitors != 2 || !b.VisitDate.Equal(visit) {
			mt.Fatalf("unexpected booking %+v", b)
		}
	})

	mt.Run("find by booking id missing", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tourguide.bookings", mtest.FirstBatch))
		if _, err := store.FindByBookingID(context.Background(), "nope"); !errors.Is(err, errs.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("find by user", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		first := mtest.CreateCursorResponse(1, "tourguide.bookings", mtest.FirstBatch,
			bson.D{{Key: "bookingId", Value: "b2"}, {Key: "userId", Value: "u1"}})
		next := mtest.CreateCursorResponse(0, "tourguide.bookings", mtest.NextBatch,
			bson.D{{Key: "bookingId", Value: "b1"}, {Key: "userId", Value: "u1"}})
		mt.AddMockResponses(first, next)

		list, err := store.FindByUser(context.Background(), "u1")
		if err != nil {
			mt.Fatal(err)
		}
		if len(list) != 2 || list[0].BookingID != "b2" || list[1].BookingID != "b1" {
			mt.Fatalf("unexpected bookings %+v", list)
		}
	})
}
