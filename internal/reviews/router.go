package reviews

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReviewRoutes(router *gin.RouterGroup, controller *Controller) {
	router.GET("/salons/:id/reviews", controller.GetSalonReviews) // GET /api/v1/salons/:id/reviews - Public review listing

	customer := router.Group("")
	customer.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		customer.POST("/salons/:id/reviews", controller.CreateReview) // POST /api/v1/salons/:id/reviews - Customer review
	}
}
