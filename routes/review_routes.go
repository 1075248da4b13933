package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/controllers"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/middleware"
)

// RegisterReviewRoutes sets up travel review routes
func RegisterReviewRoutes(e *echo.Echo, db *mongo.Client) {
	reviewController := controllers.NewReviewController(db)

	r := e.Group("/api/review")
	r.Use(middleware.JWTMiddleware())

	r.POST("", reviewController.CreateReview)
	r.GET("/me", reviewController.GetMyReviews)
	r.GET("/user/:userId", reviewController.GetReviewsByUser)
	r.GET("/all", reviewController.GetAllReviews)
	r.GET("/:reviewId", reviewController.GetReview)
	r.PUT("/:reviewId", reviewController.UpdateReview)
	r.DELETE("/:reviewId", reviewController.DeleteReview)
}
