package cancellation

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public policy lookup so customers can read the terms before booking
	policies := rg.Group("/salons")
	{
		policies.GET("/:id/cancellation-policy", controller.GetPolicy) // GET /api/v1/salons/:id/cancellation-policy
	}

	// Vendor policy management
	vendorPolicies := rg.Group("/salons")
	vendorPolicies.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendorPolicies.PUT("/:id/cancellation-policy", controller.UpsertPolicy) // PUT /api/v1/salons/:id/cancellation-policy
	}

	// Customer cancellation history
	cancellations := rg.Group("/cancellations")
	cancellations.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		cancellations.GET("", controller.GetMyCancellations)  // GET /api/v1/cancellations
		cancellations.GET("/:id", controller.GetCancellation) // GET /api/v1/cancellations/:id
	}
}
