package analytics

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller *Controller) {
	// Vendor analytics over the vendor's own salons
	vendor := router.Group("/vendor")
	vendor.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendor.GET("/dashboard", controller.GetVendorDashboard) // GET /api/v1/vendor/dashboard - Aggregates across own salons
		vendor.GET("/revenue", controller.GetVendorRevenue)     // GET /api/v1/vendor/revenue?months=6 - Monthly revenue series
	}

	// Platform-wide admin analytics
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("/overview", controller.GetAdminOverview) // GET /api/v1/admin/overview - Platform totals
	}
}
