// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Email          string               `json:"email" bson:"email"`
	Username       string               `json:"username" bson:"username"`
	Password       string               `json:"password,omitempty" bson:"password"`
	UserType       string               `json:"userType" bson:"userType"` // "user" or "admin"
	DateOfBirth    string               `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Phone          string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Address        string               `json:"address,omitempty" bson:"address,omitempty"`
	Age            int                  `json:"age,omitempty" bson:"age,omitempty"`
	Bio            string               `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePhoto   string               `json:"profilePhoto,omitempty" bson:"profilePhoto,omitempty"`
	ProfilePhotoID string               `json:"profilePhotoID,omitempty" bson:"profilePhotoID,omitempty"`
	Followers      []primitive.ObjectID `json:"followers" bson:"followers"`
	Following      []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the trimmed projection used for search results and
// populated follower/following lists
type UserSummary struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id"`
	Name         string               `json:"name" bson:"name"`
	Username     string               `json:"username,omitempty" bson:"username,omitempty"`
	Email        string               `json:"email,omitempty" bson:"email,omitempty"`
	UserType     string               `json:"userType,omitempty" bson:"userType,omitempty"`
	Address      string               `json:"address,omitempty" bson:"address,omitempty"`
	Bio          string               `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePhoto string               `json:"profilePhoto,omitempty" bson:"profilePhoto,omitempty"`
	Followers    []primitive.ObjectID `json:"followers,omitempty" bson:"followers,omitempty"`
	Following    []primitive.ObjectID `json:"following,omitempty" bson:"following,omitempty"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Age     int    `json:"age" form:"age"`
	Address string `json:"address" form:"address"`
	Bio     string `json:"bio" form:"bio"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
