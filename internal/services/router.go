package services

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupServiceRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public catalog routes
	public := router.Group("")
	public.Use(middleware.OptionalAuth())
	{
		public.GET("/salons/:id/services", controller.GetSalonServices) // GET /api/v1/salons/:id/services - Salon catalog
		public.GET("/services/:id", controller.GetService)              // GET /api/v1/services/:id - Service detail
	}

	// Vendor catalog management
	vendor := router.Group("")
	vendor.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendor.POST("/salons/:id/services", controller.CreateService) // POST /api/v1/salons/:id/services - Add service
		vendor.PUT("/services/:id", controller.UpdateService)         // PUT /api/v1/services/:id - Update service
		vendor.DELETE("/services/:id", controller.DeleteService)      // DELETE /api/v1/services/:id - Deactivate service
	}
}
