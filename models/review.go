package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review model for destination reviews
type Review struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	ReviewDes       string             `json:"reviewDes,omitempty" bson:"reviewDes,omitempty"`
	LocationVisited string             `json:"locationVisited" bson:"locationVisited"`
	Rating          int                `json:"rating" bson:"rating"` // 1..5
	Duration        int                `json:"duration" bson:"duration"`
	StartDate       *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate         *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	ReviewPhoto     string             `json:"reviewPhoto" bson:"reviewPhoto"`
	ReviewPhotoID   string             `json:"reviewPhotoID" bson:"reviewPhotoID"`
	UserID          primitive.ObjectID `json:"userId" bson:"user"`
	User            *UserSummary       `json:"user,omitempty" bson:"userInfo,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReviewMultipartRequest is the model for creating or updating a review
// (multipart form, the photo arrives as the "reviewPhoto" file part)
type ReviewMultipartRequest struct {
	Title           string `form:"title"`
	ReviewDes       string `form:"reviewDes"`
	LocationVisited string `form:"locationVisited"`
	Rating          string `form:"rating"`
	Duration        string `form:"duration"`
	StartDate       string `form:"startDate"`
	EndDate         string `form:"endDate"`
}
