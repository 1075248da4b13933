package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid values for Trip.Group
var TripGroups = []string{"Solo", "Duo", "Trio", "Friends", "Family"}

// Trip model
type Trip struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Destination string             `json:"destination" bson:"destination"`
	Duration    string             `json:"duration" bson:"duration"`
	StartDate   *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Group       string             `json:"group" bson:"group"`
	UserID      primitive.ObjectID `json:"userId" bson:"user"`
	User        *UserSummary       `json:"user,omitempty" bson:"userInfo,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type TripRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Destination string `json:"destination"`
	Duration    string `json:"duration"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Group       string `json:"group,omitempty"`
}

// IsValidTripGroup reports whether g is one of the allowed group sizes
func IsValidTripGroup(g string) bool {
	for _, valid := range TripGroups {
		if g == valid {
			return true
		}
	}
	return false
}
