package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursereview/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	reviewController *controllers.ReviewController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Course routes (public access)
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		// Static segments before the :id wildcard
		courses.GET("/trending", courseController.GetTrendingCourses)
		courses.GET("/suggestions", courseController.SearchSuggestions)
		courses.GET("/:id", courseController.GetCourseByID)
	}

	// Review routes (public access, reviews may be anonymous)
	reviews := v1.Group("/reviews")
	{
		reviews.POST("", reviewController.SubmitReview)
		reviews.GET("/tags", reviewController.GetReviewTags)
	}
}
