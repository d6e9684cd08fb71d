package payments

import (
	"salonhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures all payment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Gateway callback, authenticated by signature instead of JWT
	webhook := rg.Group("/payments")
	{
		webhook.POST("/webhook/paystack", controller.HandleWebhook) // POST /api/v1/payments/webhook/paystack
	}

	// Customer initiation and retry
	customer := rg.Group("/payments")
	customer.Use(middleware.JWTAuth(), middleware.RequireCustomer())
	{
		customer.POST("/initiate", controller.InitiatePayment) // POST /api/v1/payments/initiate
	}

	// Verification and retrieval; the service checks who may see what
	authenticated := rg.Group("/payments")
	authenticated.Use(middleware.JWTAuth())
	{
		authenticated.POST("/verify", controller.VerifyPayment)                 // POST /api/v1/payments/verify
		authenticated.GET("/:id", controller.GetPayment)                        // GET /api/v1/payments/:id
		authenticated.GET("/booking/:bookingId", controller.GetBookingPayments) // GET /api/v1/payments/booking/:bookingId
	}
}

// Route definitions for reference:
//
// CHECKOUT
// POST   /api/v1/payments/initiate                - Open a Paystack session for a pending booking
// Request body: { "booking_id": "..." }
// Response carries authorization_url for the client to open
//
// RECONCILIATION
// POST   /api/v1/payments/verify                  - Pull transaction state from Paystack and apply it
// POST   /api/v1/payments/webhook/paystack        - Paystack pushes charge events here (HMAC-SHA512 signed)
//
// RETRIEVAL
// GET    /api/v1/payments/:id                     - Payment detail (customer, salon vendor or admin)
// GET    /api/v1/payments/booking/:bookingId      - All payment attempts for a booking
//
// Verify and the webhook converge on the same record under a row lock,
// so whichever lands first settles the payment and the other becomes a
// no-op.
