package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterMessageRoutes sets up connection request routes
func RegisterMessageRoutes(e *echo.Echo, db *mongo.Client) {
	messageController := controllers.NewMessageController(db)

	r := e.Group("/api/messages")
	r.Use(middleware.JWTMiddleware())

	r.POST("/connect/:tripId", messageController.SendConnectionRequest)
	r.GET("/sent", messageController.GetSentMessages)
	r.GET("/received", messageController.GetReceivedMessages)
	r.PUT("/:messageId/read", messageController.MarkMessageRead)
	r.DELETE("/:messageId", messageController.DeleteMessage)
}
