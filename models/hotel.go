package models

import "go.mongodb.org/mongo-driver/bson/primitive"

var HotelTypes = []string{"Luxury", "Budget", "Homestay", "Mid-range"}

type Hotel struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Type        string             `json:"type" bson:"type"`
	Location    string             `json:"location" bson:"location"`
	Price       float64            `json:"price" bson:"price"`
	Rating      float64            `json:"rating" bson:"rating"`
	Description string             `json:"description" bson:"description"`
	Amenities   []string           `json:"amenities" bson:"amenities"`
	ImageURL    string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}
