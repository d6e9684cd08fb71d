package waitlist

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes configures all waitlist routes
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Waitlists belong to customers; vendors free slots by cancelling,
	// they never hold entries themselves
	customer := rg.Group("/waitlist")
	customer.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		customer.POST("", controller.JoinWaitlist)        // POST /api/v1/waitlist
		customer.GET("", controller.GetMyWaitlist)        // GET /api/v1/waitlist
		customer.DELETE("/:id", controller.LeaveWaitlist) // DELETE /api/v1/waitlist/:id
	}
}

// Route definitions for reference:
//
// WAITLIST
// POST   /api/v1/waitlist     - Join a salon's waitlist for a time window
// Request body: { "salon_id": "...", "window_start": "2026-09-01T09:00:00Z", "window_end": "2026-09-01T18:00:00Z" }
// GET    /api/v1/waitlist     - Customer's waitlist entries, newest first
// DELETE /api/v1/waitlist/:id - Leave the waitlist
//
// Slot alerts are push-only: when a booking inside the window is
// cancelled every covering waiting entry is notified and given a claim
// deadline. Booking the freed slot goes through the normal checkout.
