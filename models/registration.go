package models

import "time"

type Registration struct {
	ID               string    `json:"id" bson:"id"`
	UserID           string    `json:"userId" bson:"userId"`
	EventID          string    `json:"eventId" bson:"eventId"`
	EventName        string    `json:"eventName,omitempty" bson:"eventName,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Attendees        int       `json:"attendees" bson:"attendees"`
	RegistrationDate time.Time `json:"registrationDate" bson:"registrationDate"`
}
