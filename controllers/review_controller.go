// controllers/review_controller.go
package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/services"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

type ReviewController struct {
	db  *mongo.Client
	cdn *services.CloudinaryService
}

func NewReviewController(db *mongo.Client) *ReviewController {
	return &ReviewController{db: db, cdn: services.NewCloudinaryService()}
}

func (rc *ReviewController) collection() *mongo.Collection {
	return config.GetCollection(rc.db, "reviews")
}

func reviewLookupPipeline(match bson.M) mongo.Pipeline {
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

func (rc *ReviewController) findReviews(ctx context.Context, match bson.M) ([]models.Review, error) {
	cursor, err := rc.collection().Aggregate(ctx, reviewLookupPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// reviewPhotoUpload pulls the optional photo out of the multipart form and
// pushes it to the CDN.
func (rc *ReviewController) reviewPhotoUpload(c echo.Context) (*services.UploadResult, error) {
	file, err := c.FormFile("reviewPhoto")
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

	return rc.cdn.Upload(data, "review_photos")
}

// CreateReview adds a new travel review for the caller.
func (rc *ReviewController) CreateReview(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	var req models.ReviewMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to parse form data",
		})
	}

	req.Title = utils.SanitizeInput(req.Title)
	req.LocationVisited = utils.SanitizeInput(req.LocationVisited)
	req.ReviewDes = utils.SanitizeInput(req.ReviewDes)

	if req.Title == "" || req.LocationVisited == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title and location are required",
		})
	}

	rating, err := strconv.Atoi(req.Rating)
	if err != nil || rating < 1 || rating > 5 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rating must be between 1 and 5",
		})
	}

	duration, err := strconv.Atoi(req.Duration)
	if err != nil || duration < 1 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Duration must be a positive number of days",
		})
	}

	now := time.Now()
	review := models.Review{
		ID:              primitive.NewObjectID(),
		Title:           req.Title,
		ReviewDes:       req.ReviewDes,
		LocationVisited: req.LocationVisited,
		Rating:          rating,
		Duration:        duration,
		UserID:          userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, req.StartDate); err == nil {
			review.StartDate = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, req.EndDate); err == nil {
			review.EndDate = &t
		}
	}

	uploaded, err := rc.reviewPhotoUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to upload review photo",
		})
	}
	if uploaded != nil {
		review.ReviewPhoto = uploaded.SecureURL
		review.ReviewPhotoID = uploaded.PublicID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := rc.collection().InsertOne(ctx, review); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create review",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Review created successfully",
		Data:    review,
	})
}

// GetMyReviews lists the caller's reviews.
func (rc *ReviewController) GetMyReviews(c echo.Context) error {
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

	reviews, err := rc.findReviews(ctx, bson.M{"user": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching reviews",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reviews retrieved successfully",
		Data:    reviews,
	})
}

// GetReviewsByUser lists reviews written by a specific user.
func (rc *ReviewController) GetReviewsByUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reviews, err := rc.findReviews(ctx, bson.M{"user": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching reviews",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reviews retrieved successfully",
		Data:    reviews,
	})
}

// GetAllReviews lists every review, newest first.
func (rc *ReviewController) GetAllReviews(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reviews, err := rc.findReviews(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching reviews",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reviews retrieved successfully",
		Data:    reviews,
	})
}

// GetReview fetches a single review by ID.
func (rc *ReviewController) GetReview(c echo.Context) error {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid review ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reviews, err := rc.findReviews(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching review",
		})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Review not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review retrieved successfully",
		Data:    reviews[0],
	})
}

// UpdateReview updates a review the caller owns.
func (rc *ReviewController) UpdateReview(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid review ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var review models.Review
	if err := rc.collection().FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Review not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching review",
		})
	}

	if review.UserID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only update your own reviews",
		})
	}

	var req models.ReviewMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to parse form data",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		update["title"] = utils.SanitizeInput(req.Title)
	}
	if req.ReviewDes != "" {
		update["reviewDes"] = utils.SanitizeInput(req.ReviewDes)
	}
	if req.LocationVisited != "" {
		update["locationVisited"] = utils.SanitizeInput(req.LocationVisited)
	}
	if req.Rating != "" {
		rating, err := strconv.Atoi(req.Rating)
		if err != nil || rating < 1 || rating > 5 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Rating must be between 1 and 5",
			})
		}
		update["rating"] = rating
	}
	if req.Duration != "" {
		duration, err := strconv.Atoi(req.Duration)
		if err != nil || duration < 1 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Duration must be a positive number of days",
			})
		}
		update["duration"] = duration
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

	uploaded, err := rc.reviewPhotoUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to upload review photo",
		})
	}
	if uploaded != nil {
		if review.ReviewPhotoID != "" {
			if err := rc.cdn.Delete(review.ReviewPhotoID); err != nil {
				log.Printf("failed to delete old review photo %s: %v", review.ReviewPhotoID, err)
			}
		}
		update["reviewPhoto"] = uploaded.SecureURL
		update["reviewPhotoID"] = uploaded.PublicID
	}

	var updated models.Review
	err = rc.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": reviewID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update review",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review updated successfully",
		Data:    updated,
	})
}

// DeleteReview deletes a review. Allowed for the author or an admin.
func (rc *ReviewController) DeleteReview(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid review ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	if err := rc.collection().FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Review not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching review",
		})
	}

	if review.UserID.Hex() != claims.UserID && claims.UserType != "admin" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only delete your own reviews",
		})
	}

	if _, err := rc.collection().DeleteOne(ctx, bson.M{"_id": reviewID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete review",
		})
	}

	if review.ReviewPhotoID != "" {
		if err := rc.cdn.Delete(review.ReviewPhotoID); err != nil {
			log.Printf("failed to delete review photo %s: %v", review.ReviewPhotoID, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Review deleted successfully",
	})
}
