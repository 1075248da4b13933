package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterDestinationRoutes sets up curated destination routes
func RegisterDestinationRoutes(e *echo.Echo, db *mongo.Client) {
	destinationController := controllers.NewDestinationController(db)

	r := e.Group("/api/destination")
	r.Use(middleware.JWTMiddleware())

	r.GET("/all", destinationController.GetAllDestinations)
	r.GET("/:destinationId", destinationController.GetDestination)

	// Curated content is managed by admins
	adminOnly := middleware.RequireUserType("admin")
	r.POST("/add", destinationController.AddDestination, adminOnly)
	r.PUT("/:destinationId", destinationController.UpdateDestination, adminOnly)
	r.DELETE("/:destinationId", destinationController.DeleteDestination, adminOnly)
}
