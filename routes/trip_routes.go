package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterTripRoutes sets up trip CRUD and sharing routes
func RegisterTripRoutes(e *echo.Echo, db *mongo.Client) {
	tripController := controllers.NewTripController(db)

	r := e.Group("/api/trips")
	r.Use(middleware.JWTMiddleware())

	r.GET("", tripController.GetMyTrips)
	r.GET("/all", tripController.GetAllTrips)
	r.GET("/user/:userId", tripController.GetTripsByUser)
	r.GET("/:tripId", tripController.GetTrip)
	r.GET("/:tripId/qrcode", tripController.GetTripQRCode)
	r.POST("", tripController.CreateTrip)
	r.PUT("/:tripId", tripController.UpdateTrip)
	r.DELETE("/:tripId", tripController.DeleteTrip)
}
