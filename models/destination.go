package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Destination is a curated destination entry
type Destination struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	Description        string             `json:"description" bson:"description"`
	Location           string             `json:"location" bson:"location"`
	BestTimeToVisit    string             `json:"bestTimeToVisit" bson:"bestTimeToVisit"`
	TravelDuration     string             `json:"travelDuration" bson:"travelDuration"`
	DestinationPhoto   string             `json:"destinationPhoto" bson:"destinationPhoto"`
	DestinationPhotoID string             `json:"destinationPhotoID" bson:"destinationPhotoID"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type DestinationMultipartRequest struct {
	Name            string `form:"name"`
	Description     string `form:"description"`
	Location        string `form:"location"`
	BestTimeToVisit string `form:"bestTimeToVisit"`
	TravelDuration  string `form:"travelDuration"`
}
