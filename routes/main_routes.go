package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController, userController *controllers.UserController) {
	RegisterAuthRoutes(e, db, authController)
	RegisterUserRoutes(e, db, userController)
	RegisterTripRoutes(e, db)
	RegisterReviewRoutes(e, db)
	RegisterDestinationRoutes(e, db)
	RegisterMessageRoutes(e, db)
}
