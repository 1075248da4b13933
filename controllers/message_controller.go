// controllers/message_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/repositories"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

type MessageController struct {
	db    *mongo.Client
	users *repositories.UserRepository
}

func NewMessageController(db *mongo.Client) *MessageController {
	return &MessageController{db: db, users: repositories.NewUserRepository(db)}
}

func (mc *MessageController) collection() *mongo.Collection {
	return config.GetCollection(mc.db, "messages")
}

func messageLookupPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "sender",
			"foreignField": "_id",
			"as":           "senderInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$senderInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "recipient",
			"foreignField": "_id",
			"as":           "recipientInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$recipientInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "trips",
			"localField":   "trip",
			"foreignField": "_id",
			"as":           "tripInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$tripInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"senderInfo.password":    0,
			"recipientInfo.password": 0,
		}}},
	}
}

func (mc *MessageController) findMessages(ctx context.Context, match bson.M) ([]models.Message, error) {
	cursor, err := mc.collection().Aggregate(ctx, messageLookupPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendConnectionRequest messages a trip's creator. The notification email
// goes out asynchronously; its failure never fails the request.
func (mc *MessageController) SendConnectionRequest(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	senderID, _ := primitive.ObjectIDFromHex(idHex)

	tripID, err := primitive.ObjectIDFromHex(c.Param("tripId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid trip ID",
		})
	}

	var req models.ConnectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	content := utils.SanitizeInput(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Message content is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var trip models.Trip
	tripsCollection := config.GetCollection(mc.db, "trips")
	if err := tripsCollection.FindOne(ctx, bson.M{"_id": tripID}).Decode(&trip); err != nil {
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

	if trip.UserID == senderID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You cannot send a connection request to your own trip",
		})
	}

	sender, err := mc.users.FindByID(ctx, senderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching sender",
		})
	}
	recipient, err := mc.users.FindByID(ctx, trip.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching trip owner",
		})
	}

	now := time.Now()
	message := models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		RecipientID: trip.UserID,
		TripID:      tripID,
		Content:     content,
		Status:      "unread",
		EmailSent:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := mc.collection().InsertOne(ctx, message); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send connection request",
		})
	}

	// Email is best effort; the message stands regardless
	go func(msgID primitive.ObjectID) {
		subject, body := utils.ConnectionRequestEmail(sender, recipient, &trip, content)
		if err := utils.SendEmail(recipient.Email, subject, body); err != nil {
			log.Printf("connection request email to %s failed: %v", recipient.Email, err)
			return
		}

		bgCtx, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		if _, err := mc.collection().UpdateOne(bgCtx,
			bson.M{"_id": msgID},
			bson.M{"$set": bson.M{"emailSent": true}},
		); err != nil {
			log.Printf("failed to mark emailSent for message %s: %v", msgID.Hex(), err)
		}
	}(message.ID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Connection request sent successfully",
		Data:    message,
	})
}

// GetSentMessages lists connection requests the caller has sent.
func (mc *MessageController) GetSentMessages(c echo.Context) error {
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

	messages, err := mc.findMessages(ctx, bson.M{"sender": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Messages retrieved successfully",
		Data:    messages,
	})
}

// GetReceivedMessages lists connection requests sent to the caller.
func (mc *MessageController) GetReceivedMessages(c echo.Context) error {
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

	messages, err := mc.findMessages(ctx, bson.M{"recipient": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching messages",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Messages retrieved successfully",
		Data:    messages,
	})
}

// MarkMessageRead marks a received message as read. Recipient only.
func (mc *MessageController) MarkMessageRead(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid message ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := mc.collection().UpdateOne(ctx,
		bson.M{"_id": messageID, "recipient": userID},
		bson.M{"$set": bson.M{"status": "read", "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update message",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Message not found or not addressed to you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message marked as read",
	})
}

// DeleteMessage removes a message the caller sent or received.
func (mc *MessageController) DeleteMessage(c echo.Context) error {
	idHex, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	userID, _ := primitive.ObjectIDFromHex(idHex)

	messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid message ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := mc.collection().DeleteOne(ctx, bson.M{
		"_id": messageID,
		"$or": []bson.M{
			{"sender": userID},
			{"recipient": userID},
		},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete message",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Message not found or not yours",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message deleted successfully",
	})
}
