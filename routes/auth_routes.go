package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterAuthRoutes sets up signup, login and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	auth.POST("/send-signup-otp", authController.SendSignupOTP)
	auth.POST("/verify-otp-signup", authController.VerifyOTPSignup)
	auth.POST("/resend-otp", authController.ResendOTP)
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.GET("/validate-token", authController.ValidateToken)
}
