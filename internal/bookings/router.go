package bookings

import (
	"salonhub/internal/shared/middleware"
	"salonhub/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking and availability routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public availability grid
	availability := rg.Group("/salons")
	{
		availability.GET("/:id/availability", controller.GetAvailability) // GET /api/v1/salons/:id/availability?date=YYYY-MM-DD
	}

	// Customer checkout and listing
	customer := rg.Group("/bookings")
	customer.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		customer.POST("", controller.Checkout)     // POST /api/v1/bookings
		customer.GET("", controller.GetMyBookings) // GET /api/v1/bookings
	}

	// Detail is shared: owner, salon vendor and admin all pass the
	// service-level access check
	detail := rg.Group("/bookings")
	detail.Use(middleware.JWTAuth())
	{
		detail.GET("/:id", controller.GetBooking) // GET /api/v1/bookings/:id
	}

	// Cancellation is open to both sides of the booking
	cancel := rg.Group("/bookings")
	cancel.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleCustomer), string(users.RoleVendor)))
	{
		cancel.PUT("/:id/cancel", controller.CancelBooking) // PUT /api/v1/bookings/:id/cancel
	}

	// Vendor operations
	vendor := rg.Group("")
	vendor.Use(middleware.JWTAuth(), middleware.RequireVendor())
	{
		vendor.PUT("/bookings/:id/complete", controller.CompleteBooking) // PUT /api/v1/bookings/:id/complete
		vendor.GET("/vendor/bookings", controller.GetVendorBookings)     // GET /api/v1/vendor/bookings
	}
}

// Route definitions for reference:
//
// AVAILABILITY
// GET    /api/v1/salons/:id/availability?date=2026-09-01  - 30 minute slot grid for a day
//
// CHECKOUT
// POST   /api/v1/bookings                                 - Book services and initiate payment
// Request body: { "salon_id": "...", "scheduled_time": "2026-09-01T10:00:00Z", "items": [{ "service_id": "...", "quantity": 1 }] }
//
// LIFECYCLE
// PUT    /api/v1/bookings/:id/cancel                      - Cancel (policy applies once confirmed)
// PUT    /api/v1/bookings/:id/complete                    - Vendor marks an elapsed booking completed
//
// RETRIEVAL
// GET    /api/v1/bookings                                 - Customer's bookings with filters and pagination
// GET    /api/v1/bookings/:id                             - Booking detail (owner, salon vendor or admin)
// GET    /api/v1/vendor/bookings                          - Bookings across the vendor's salons
//
// Key flow after checkout:
// 1. Client opens the returned authorization_url and completes payment
// 2. The gateway webhook (or a client-triggered verify) marks the payment successful
// 3. The booking moves from pending to confirmed
// 4. After the scheduled window elapses the booking auto-completes
