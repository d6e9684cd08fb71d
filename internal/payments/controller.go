package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/bookings"
	"salonhub/internal/shared/utils/response"
	"salonhub/internal/users"
	"salonhub/pkg/logger"
)

// Controller handles HTTP requests for payments
type Controller struct {
	service Service
}

// NewController creates a new payment controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// InitiatePayment godoc
// @Summary Initiate payment for a booking
// @Description Opens a Paystack checkout session for a pending booking. If an earlier initiation failed at the gateway the same payment is retried under a fresh reference.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InitiatePaymentRequest true "Booking to pay for"
// @Success 200 {object} response.StandardApiResponse{data=InitiateResponse}
// @Failure 409 {object} response.StandardApiResponse
// @Failure 502 {object} response.StandardApiResponse
// @Router /payments/initiate [post]
func (c *Controller) InitiatePayment(ctx *gin.Context) {
	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req InitiatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	result, err := c.service.Initiate(ctx.Request.Context(), bookingID, customerID)
	if err != nil {
		c.respondPaymentError(ctx, err, "Failed to initiate payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment initiated successfully", result, nil)
}

// VerifyPayment godoc
// @Summary Verify a payment with the gateway
// @Description Asks Paystack for the authoritative transaction state and reconciles the local payment record with it. Safe to call repeatedly.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyPaymentRequest true "Gateway reference"
// @Success 200 {object} response.StandardApiResponse{data=PaymentResponse}
// @Failure 404 {object} response.StandardApiResponse
// @Failure 502 {object} response.StandardApiResponse
// @Router /payments/verify [post]
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Verify(ctx.Request.Context(), req.Reference)
	if err != nil {
		c.respondPaymentError(ctx, err, "Failed to verify payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified successfully", result, nil)
}

// GetPayment handles GET /api/v1/payments/:id
func (c *Controller) GetPayment(ctx *gin.Context) {
	paymentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid payment ID", nil, err.Error())
		return
	}

	actorID, role, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	payment, err := c.service.GetPayment(ctx.Request.Context(), paymentID, actorID, role)
	if err != nil {
		c.respondPaymentError(ctx, err, "Failed to get payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", payment, nil)
}

// GetBookingPayments handles GET /api/v1/payments/booking/:bookingId
func (c *Controller) GetBookingPayments(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("bookingId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	actorID, role, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	payments, err := c.service.GetBookingPayments(ctx.Request.Context(), bookingID, actorID, role)
	if err != nil {
		c.respondPaymentError(ctx, err, "Failed to get payments")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", payments, nil)
}

// HandleWebhook godoc
// @Summary Paystack webhook receiver
// @Description Receives charge events pushed by Paystack. The signature is verified over the raw body before anything is parsed; rejected deliveries mutate nothing and are logged for audit.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /payments/webhook/paystack [post]
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read request body", nil, nil)
		return
	}

	signature := ctx.GetHeader("x-paystack-signature")

	if err := c.service.HandleWebhook(ctx.Request.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			logger.GetDefault().LogWebhookRejected(ctx.Request.Context(), ctx.ClientIP(), "invalid signature")
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid signature", nil, nil)
		case errors.Is(err, ErrMalformedPayload):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Malformed webhook payload", nil, nil)
		default:
			// A 5xx makes the gateway redeliver, which is what we want
			// for transient storage failures
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process webhook", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Webhook processed", nil, nil)
}

// respondPaymentError maps service errors onto HTTP statuses. Gateway
// failures surface as 502 so clients know the local state is intact and
// the operation can be retried.
func (c *Controller) respondPaymentError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrBookingNotPayable):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, bookings.ErrNotBookingOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not have access to this payment", nil, nil)
	case errors.Is(err, ErrGateway):
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Payment gateway is unavailable. Please try again.", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

func actorFromContext(ctx *gin.Context) (uuid.UUID, users.Role, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, "", false
	}

	roleRaw, _ := ctx.Get("user_role")
	roleStr, _ := roleRaw.(string)
	return id, users.Role(roleStr), true
}
