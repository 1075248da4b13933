package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a connection request sent to a trip creator
type Message struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID    primitive.ObjectID `json:"senderId" bson:"sender"`
	RecipientID primitive.ObjectID `json:"recipientId" bson:"recipient"`
	TripID      primitive.ObjectID `json:"tripId" bson:"trip"`
	Content     string             `json:"content" bson:"content"`
	Status      string             `json:"status" bson:"status"` // "unread" or "read"
	EmailSent   bool               `json:"emailSent" bson:"emailSent"`
	Sender      *UserSummary       `json:"sender,omitempty" bson:"senderInfo,omitempty"`
	Recipient   *UserSummary       `json:"recipient,omitempty" bson:"recipientInfo,omitempty"`
	Trip        *Trip              `json:"trip,omitempty" bson:"tripInfo,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ConnectionRequest struct {
	Content string `json:"content"`
}
