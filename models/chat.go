package models

import "time"

type ChatEntry struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"userId" bson:"userId"`
	UserMessage string    `json:"userMessage" bson:"userMessage"`
	BotResponse string    `json:"botResponse" bson:"botResponse"`
	Source      string    `json:"source,omitempty" bson:"source,omitempty"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
