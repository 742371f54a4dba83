package models

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

type Booking struct {
	BookingID          string    `json:"bookingId" bson:"bookingId"`
	UserID             string    `json:"userId" bson:"userId"`
	AttractionName     string    `json:"attractionName" bson:"attractionName"`
	AttractionLocation string    `json:"attractionLocation" bson:"attractionLocation"`
	BookingDate        time.Time `json:"bookingDate" bson:"bookingDate"`
	VisitDate          time.Time `json:"visitDate" bson:"visitDate"`
	NumberOfVisitors   int       `json:"numberOfVisitors" bson:"numberOfVisitors"`
	TotalPrice         float64   `json:"totalPrice" bson:"totalPrice"`
	Status             string    `json:"status" bson:"status"` // confirmed, pending, cancelled
	QRCode             string    `json:"qrCode" bson:"qrCode"`
}

// BookingEvent is published on the booking-events channel after a create.
type BookingEvent struct {
	Type               string    `json:"type"`
	BookingID          string    `json:"bookingId"`
	AttractionName     string    `json:"attractionName"`
	AttractionLocation string    `json:"attractionLocation"`
	NumberOfVisitors   int       `json:"numberOfVisitors"`
	VisitDate          time.Time `json:"visitDate"`
	CreatedAt          time.Time `json:"createdAt"`
}
