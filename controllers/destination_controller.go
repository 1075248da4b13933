// controllers/destination_controller.go
package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/services"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

type DestinationController struct {
	db  *mongo.Client
	cdn *services.CloudinaryService
}

func NewDestinationController(db *mongo.Client) *DestinationController {
	return &DestinationController{db: db, cdn: services.NewCloudinaryService()}
}

func (dc *DestinationController) collection() *mongo.Collection {
	return config.GetCollection(dc.db, "destinations")
}

func (dc *DestinationController) destinationPhotoUpload(c echo.Context) (*services.UploadResult, error) {
	file, err := c.FormFile("destinationPhoto")
	if err != nil {
		return nil, nil
	}

	if err := utils.ValidateImageUpload(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return dc.cdn.Upload(data, "destination_photos")
}

// AddDestination creates a curated destination entry.
func (dc *DestinationController) AddDestination(c echo.Context) error {
	var req models.DestinationMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to parse form data",
		})
	}

	req.Name = utils.SanitizeInput(req.Name)
	req.Location = utils.SanitizeInput(req.Location)

	if req.Name == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and location are required",
		})
	}

	now := time.Now()
	destination := models.Destination{
		ID:              primitive.NewObjectID(),
		Name:            req.Name,
		Description:     utils.SanitizeInput(req.Description),
		Location:        req.Location,
		BestTimeToVisit: utils.SanitizeInput(req.BestTimeToVisit),
		TravelDuration:  utils.SanitizeInput(req.TravelDuration),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	uploaded, err := dc.destinationPhotoUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to upload destination photo",
		})
	}
	if uploaded != nil {
		destination.DestinationPhoto = uploaded.SecureURL
		destination.DestinationPhotoID = uploaded.PublicID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := dc.collection().InsertOne(ctx, destination); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create destination",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Destination created successfully",
		Data:    destination,
	})
}

// GetAllDestinations lists every curated destination.
func (dc *DestinationController) GetAllDestinations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := dc.collection().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching destinations",
		})
	}
	defer cursor.Close(ctx)

	destinations := []models.Destination{}
	if err := cursor.All(ctx, &destinations); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error parsing destinations",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destinations retrieved successfully",
		Data:    destinations,
	})
}

// GetDestination fetches a single destination by ID.
func (dc *DestinationController) GetDestination(c echo.Context) error {
	destinationID, err := primitive.ObjectIDFromHex(c.Param("destinationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var destination models.Destination
	if err := dc.collection().FindOne(ctx, bson.M{"_id": destinationID}).Decode(&destination); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Destination not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching destination",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination retrieved successfully",
		Data:    destination,
	})
}

// UpdateDestination updates a destination entry.
func (dc *DestinationController) UpdateDestination(c echo.Context) error {
	destinationID, err := primitive.ObjectIDFromHex(c.Param("destinationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	var req models.DestinationMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to parse form data",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var destination models.Destination
	if err := dc.collection().FindOne(ctx, bson.M{"_id": destinationID}).Decode(&destination); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Destination not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching destination",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		update["name"] = utils.SanitizeInput(req.Name)
	}
	if req.Description != "" {
		update["description"] = utils.SanitizeInput(req.Description)
	}
	if req.Location != "" {
		update["location"] = utils.SanitizeInput(req.Location)
	}
	if req.BestTimeToVisit != "" {
		update["bestTimeToVisit"] = utils.SanitizeInput(req.BestTimeToVisit)
	}
	if req.TravelDuration != "" {
		update["travelDuration"] = utils.SanitizeInput(req.TravelDuration)
	}

	uploaded, err := dc.destinationPhotoUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to upload destination photo",
		})
	}
	if uploaded != nil {
		if destination.DestinationPhotoID != "" {
			if err := dc.cdn.Delete(destination.DestinationPhotoID); err != nil {
				log.Printf("failed to delete old destination photo %s: %v", destination.DestinationPhotoID, err)
			}
		}
		update["destinationPhoto"] = uploaded.SecureURL
		update["destinationPhotoID"] = uploaded.PublicID
	}

	var updated models.Destination
	err = dc.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": destinationID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update destination",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination updated successfully",
		Data:    updated,
	})
}

// DeleteDestination removes a destination and its CDN asset.
func (dc *DestinationController) DeleteDestination(c echo.Context) error {
	destinationID, err := primitive.ObjectIDFromHex(c.Param("destinationId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid destination ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var destination models.Destination
	if err := dc.collection().FindOne(ctx, bson.M{"_id": destinationID}).Decode(&destination); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Destination not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching destination",
		})
	}

	if _, err := dc.collection().DeleteOne(ctx, bson.M{"_id": destinationID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete destination",
		})
	}

	if destination.DestinationPhotoID != "" {
		if err := dc.cdn.Delete(destination.DestinationPhotoID); err != nil {
			log.Printf("failed to delete destination photo %s: %v", destination.DestinationPhotoID, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Destination deleted successfully",
	})
}
