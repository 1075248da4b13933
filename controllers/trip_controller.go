// controllers/trip_controller.go
package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

type TripController struct {
	db *mongo.Client
}

func NewTripController(db *mongo.Client) *TripController {
	return &TripController{db: db}
}

func (tc *TripController) collection() *mongo.Collection {
	return config.GetCollection(tc.db, "trips")
}

// tripLookupPipeline joins the owning user's summary onto each trip.
func tripLookupPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "userInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$userInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"userInfo.password": 0,
			"userInfo.email":    0,
		}}},
	}
}

func (tc *TripController) findTrips(ctx context.Context, match bson.M) ([]models.Trip, error) {
	cursor, err := tc.collection().Aggregate(ctx, tripLookupPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// GetMyTrips lists the caller's trips, newest first.
func (tc *TripController) GetMyTrips(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trips, err := tc.findTrips(ctx, bson.M{"user": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trips",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trips retrieved successfully",
		Data:    trips,
	})
}

// GetAllTrips lists every trip for the explore feed.
func (tc *TripController) GetAllTrips(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trips, err := tc.findTrips(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trips",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trips retrieved successfully",
		Data:    trips,
	})
}

// GetTripsByUser lists the trips of a specific user.
func (tc *TripController) GetTripsByUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trips, err := tc.findTrips(ctx, bson.M{"user": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trips",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trips retrieved successfully",
		Data:    trips,
	})
}

// GetTrip fetches a single trip by ID.
func (tc *TripController) GetTrip(c echo.Context) error {
	tripIDHex := c.Param("tripId")
	if !utils.IsValidObjectIDHex(tripIDHex) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trip ID format",
		})
	}
	tripID, _ := primitive.ObjectIDFromHex(tripIDHex)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trips, err := tc.findTrips(ctx, bson.M{"_id": tripID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trip",
		})
	}
	if len(trips) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Trip not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trip retrieved successfully",
		Data:    trips[0],
	})
}

// CreateTrip creates a trip owned by the caller.
func (tc *TripController) CreateTrip(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	var req models.TripRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	req.Title = utils.SanitizeInput(req.Title)
	req.Destination = utils.SanitizeInput(req.Destination)
	req.Duration = utils.SanitizeInput(req.Duration)
	req.Description = utils.SanitizeInput(req.Description)

	if req.Title == "" || req.Destination == "" || req.Duration == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title, destination and duration are required",
		})
	}

	group := req.Group
	if group == "" {
		group = "Solo"
	}
	if !models.IsValidTripGroup(group) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Group must be one of Solo, Duo, Trio, Friends, Family",
		})
	}

	now := time.Now()
	trip := models.Trip{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Destination: req.Destination,
		Duration:    req.Duration,
		Group:       group,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, req.StartDate); err == nil {
			trip.StartDate = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, req.EndDate); err == nil {
			trip.EndDate = &t
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := tc.collection().InsertOne(ctx, trip); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create trip",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Trip created successfully",
		Data:    trip,
	})
}

// UpdateTrip updates a trip the caller owns.
func (tc *TripController) UpdateTrip(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trip ID",
		})
	}

	var req models.TripRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var trip models.Trip
	if err := tc.collection().FindOne(ctx, bson.M{"_id": tripID}).Decode(&trip); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Trip not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trip",
		})
	}

	if trip.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only update your own trips",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		update["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Description != "" {
		update["description"] = utils.SanitizeInput(req.Description)
	}
	if req.Destination != "" {
		update["destination"] = utils.SanitizeInput(req.Destination)
	}
	if req.Duration != "" {
		update["duration"] = utils.SanitizeInput(req.Duration)
	}
	if req.Group != "" {
		if !models.IsValidTripGroup(req.Group) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Group must be one of Solo, Duo, Trio, Friends, Family",
			})
		}
		update["group"] = req.Group
	}
	if req.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, req.StartDate); err == nil {
			update["startDate"] = t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, req.EndDate); err == nil {
			update["endDate"] = t
		}
	}

	var updated models.Trip
	err = tc.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": tripID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update trip",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trip updated successfully",
		Data:    updated,
	})
}

// DeleteTrip deletes a trip the caller owns, along with its connection
// requests.
func (tc *TripController) DeleteTrip(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trip ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.collection().DeleteOne(ctx, bson.M{"_id": tripID, "user": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete trip",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Trip not found or not owned by you",
		})
	}

	messagesCollection := config.GetCollection(tc.db, "messages")
	messagesCollection.DeleteMany(ctx, bson.M{"trip": tripID})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Trip deleted successfully",
	})
}

// GetTripQRCode renders a PNG QR code pointing at the trip's share URL.
func (tc *TripController) GetTripQRCode(c echo.Context) error {
	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trip ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := tc.collection().CountDocuments(ctx, bson.M{"_id": tripID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trip",
		})
	}
	if count == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Trip not found",
		})
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	shareURL := fmt.Sprintf("%s/trips/%s", baseURL, tripID.Hex())

	qrCode, err := qr.Encode(shareURL, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	scaled, err := barcode.Scale(qrCode, 256, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
