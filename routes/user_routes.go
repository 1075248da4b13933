package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterUserRoutes sets up all user-related protected routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, userController *controllers.UserController) {
	r := e.Group("/api/user")
	r.Use(middleware.JWTMiddleware())

	r.GET("", userController.SearchUsers)
	r.GET("/me", userController.GetMe)
	r.GET("/:id", userController.GetUser)
	r.PUT("/follow/:id", userController.ToggleFollow)
	r.PUT("/update-profile", userController.UpdateProfile)
	r.PUT("/change-password", userController.ChangePassword)
	r.DELETE("/delete/:id", userController.DeleteUser)
}
