package salons

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSalonRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public browse routes. OptionalAuth lets logged-in users see
	// their is_favorited flags without requiring a token.
	publicSalons := router.Group("/salons")
	publicSalons.Use(middleware.OptionalAuth())
	{
		publicSalons.GET("", controller.GetSalons)                  // GET /api/v1/salons - Browse with filters
		publicSalons.GET("/featured", controller.GetFeaturedSalons) // GET /api/v1/salons/featured - Top rated verified
		publicSalons.GET("/slug/:slug", controller.GetSalonBySlug)  // GET /api/v1/salons/slug/:slug - Salon by slug
		publicSalons.GET("/:id", controller.GetSalon)               // GET /api/v1/salons/:id - Salon detail
	}

	// Vendor routes
	vendorSalons := router.Group("/salons")
	vendorSalons.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendorSalons.POST("", controller.CreateSalon)                            // POST /api/v1/salons - Create salon
		vendorSalons.PUT("/:id", controller.UpdateSalon)                         // PUT /api/v1/salons/:id - Update own salon
		vendorSalons.DELETE("/:id", controller.DeleteSalon)                      // DELETE /api/v1/salons/:id - Soft delete own salon
		vendorSalons.POST("/:id/images", controller.AddSalonImage)               // POST /api/v1/salons/:id/images - Add image
		vendorSalons.DELETE("/:id/images/:imageId", controller.DeleteSalonImage) // DELETE /api/v1/salons/:id/images/:imageId
	}

	vendor := router.Group("/vendor")
	vendor.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendor.GET("/salons", controller.GetVendorSalons) // GET /api/v1/vendor/salons - Own salons
	}

	// Admin routes
	adminSalons := router.Group("/admin/salons")
	adminSalons.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminSalons.PUT("/:id/verify", controller.VerifySalon) // PUT /api/v1/admin/salons/:id/verify - Toggle verification
	}

	// Customer favorites
	favorites := router.Group("/favorites")
	favorites.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		favorites.GET("", controller.ListFavorites)              // GET /api/v1/favorites - List favorite salons
		favorites.POST("/:salonId", controller.AddFavorite)      // POST /api/v1/favorites/:salonId - Favorite a salon
		favorites.DELETE("/:salonId", controller.RemoveFavorite) // DELETE /api/v1/favorites/:salonId - Unfavorite
	}
}
