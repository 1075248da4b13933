// controllers/user_controller.go
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
	"golang.org/x/crypto/bcrypt"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/repositories"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/services"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

type UserController struct {
	db     *mongo.Client
	users  *repositories.UserRepository
	social *services.SocialService
	cdn    *services.CloudinaryService
}

func NewUserController(db *mongo.Client) *UserController {
	users := repositories.NewUserRepository(db)
	return &UserController{
		db:     db,
		users:  users,
		social: services.NewSocialService(users),
		cdn:    services.NewCloudinaryService(),
	}
}

func (uc *UserController) currentUserID(c echo.Context) (primitive.ObjectID, error) {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(idHex)
}

// SearchUsers finds users by name or address, excluding admins and the caller.
func (uc *UserController) SearchUsers(c echo.Context) error {
	callerID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	query := utils.SanitizeInput(c.QueryParam("search"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":      bson.M{"$ne": callerID},
		"userType": bson.M{"$ne": "admin"},
	}
	if query != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"address": bson.M{"$regex": query, "$options": "i"}},
		}
	}

	findOptions := options.Find().
		SetLimit(50).
		SetProjection(bson.M{
			"name": 1, "username": 1, "address": 1, "bio": 1,
			"profilePhoto": 1, "followers": 1, "following": 1,
		})

	usersCollection := config.GetCollection(uc.db, "users")
	cursor, err := usersCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error searching users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.UserSummary{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error parsing users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// GetMe returns the caller's profile with followers and following hydrated.
func (uc *UserController) GetMe(c echo.Context) error {
	callerID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching profile",
		})
	}

	followers, err := uc.summariesByIDs(ctx, user.Followers)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching followers",
		})
	}
	following, err := uc.summariesByIDs(ctx, user.Following)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching following",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data: map[string]interface{}{
			"user":      user,
			"followers": followers,
			"following": following,
		},
	})
}

// GetUser returns another user's public profile.
func (uc *UserController) GetUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching user",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// ToggleFollow follows the target if not followed, unfollows otherwise.
func (uc *UserController) ToggleFollow(c echo.Context) error {
	callerID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := uc.social.ToggleFollow(ctx, callerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "You cannot follow yourself",
			})
		case errors.Is(err, services.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update follow status",
			})
		}
	}

	message := "User followed successfully"
	if result.Action == services.FollowActionUnfollowed {
		message = "User unfollowed successfully"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    result,
	})
}

// UpdateProfile updates profile fields and optionally replaces the photo.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	callerID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := uc.users.FindByID(ctx, callerID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		update["name"] = utils.SanitizeInput(req.Name)
	}
	if req.Phone != "" {
		update["phone"] = utils.SanitizeInput(req.Phone)
	}
	if req.Address != "" {
		update["address"] = utils.SanitizeInput(req.Address)
	}
	if req.Bio != "" {
		update["bio"] = utils.SanitizeInput(req.Bio)
	}
	if req.Age > 0 {
		update["age"] = req.Age
	}

	if file, err := c.FormFile("profilePhoto"); err == nil {
		if err := utils.ValidateImageUpload(file); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}

		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read uploaded file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read uploaded file",
			})
		}

		uploaded, err := uc.cdn.Upload(data, "profile_photos")
		if err != nil {
			return c.JSON(http.StatusBadGateway, models.Response{
				Status:  http.StatusBadGateway,
				Message: "Failed to upload profile photo",
			})
		}

		if user.ProfilePhotoID != "" {
			if err := uc.cdn.Delete(user.ProfilePhotoID); err != nil {
				log.Printf("failed to delete old profile photo %s: %v", user.ProfilePhotoID, err)
			}
		}

		update["profilePhoto"] = uploaded.SecureURL
		update["profilePhotoID"] = uploaded.PublicID
	}

	usersCollection := config.GetCollection(uc.db, "users")
	var updated models.User
	err = usersCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": callerID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	updated.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    updated,
	})
}

// ChangePassword sets a new password for the caller's own account.
func (uc *UserController) ChangePassword(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil || len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email and a password of at least 8 characters are required",
		})
	}

	if email != claims.Email {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only change your own password",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to change password",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to change password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password changed successfully",
	})
}

// DeleteUser removes an account and everything it owns. Allowed for the
// account holder or an admin.
func (uc *UserController) DeleteUser(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	if claims.UserID != targetID.Hex() && claims.UserType != "admin" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only delete your own account",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := uc.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching user",
		})
	}

	// Cascade owned documents before the account itself
	tripsCollection := config.GetCollection(uc.db, "trips")
	if _, err := tripsCollection.DeleteMany(ctx, bson.M{"user": targetID}); err != nil {
		log.Printf("failed to delete trips for user %s: %v", targetID.Hex(), err)
	}

	reviewsCollection := config.GetCollection(uc.db, "reviews")
	if _, err := reviewsCollection.DeleteMany(ctx, bson.M{"user": targetID}); err != nil {
		log.Printf("failed to delete reviews for user %s: %v", targetID.Hex(), err)
	}

	messagesCollection := config.GetCollection(uc.db, "messages")
	if _, err := messagesCollection.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"sender": targetID},
		{"recipient": targetID},
	}}); err != nil {
		log.Printf("failed to delete messages for user %s: %v", targetID.Hex(), err)
	}

	// Remove the account from other users' follow lists
	usersCollection := config.GetCollection(uc.db, "users")
	if _, err := usersCollection.UpdateMany(ctx,
		bson.M{},
		bson.M{"$pull": bson.M{"followers": targetID, "following": targetID}},
	); err != nil {
		log.Printf("failed to prune follow lists for user %s: %v", targetID.Hex(), err)
	}

	if user.ProfilePhotoID != "" {
		if err := uc.cdn.Delete(user.ProfilePhotoID); err != nil {
			log.Printf("failed to delete profile photo %s: %v", user.ProfilePhotoID, err)
		}
	}

	if err := uc.users.Delete(ctx, targetID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}

func (uc *UserController) summariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}

	usersCollection := config.GetCollection(uc.db, "users")
	cursor, err := usersCollection.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{
			"name": 1, "username": 1, "profilePhoto": 1, "bio": 1,
		}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
