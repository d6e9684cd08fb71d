package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/cancellation"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/shared/utils/response"
	"salonhub/internal/users"
)

// Controller handles HTTP requests for bookings and availability
type Controller struct {
	service Service
}

// NewController creates a new booking controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Checkout godoc
// @Summary Book salon services
// @Description Creates a booking for the selected services and initiates payment for it. If payment initiation fails the booking is kept in pending and the response carries payment_error.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking details"
// @Success 201 {object} response.StandardApiResponse{data=CheckoutResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings [post]
func (c *Controller) Checkout(ctx *gin.Context) {
	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Checkout(ctx.Request.Context(), customerID, req)
	if err != nil {
		c.respondBookingError(ctx, err, "Failed to create booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	actorID, role, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, actorID, role)
	if err != nil {
		c.respondBookingError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetMyBookings handles GET /api/v1/bookings
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetCustomerBookings(ctx.Request.Context(), customerID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bookings", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// GetVendorBookings handles GET /api/v1/vendor/bookings
func (c *Controller) GetVendorBookings(ctx *gin.Context) {
	vendorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetVendorBookings(ctx.Request.Context(), vendorID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bookings", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Cancels a pending or confirmed booking. Confirmed bookings are subject to the salon's cancellation policy and may incur a fee; the refundable remainder is returned to the customer.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} response.StandardApiResponse{data=BookingResponse}
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/{id}/cancel [put]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	actorID, role, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	// The body is optional; cancelling without a reason is fine
	var req CancelBookingRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), bookingID, actorID, role, req.Reason)
	if err != nil {
		c.respondBookingError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// CompleteBooking handles PUT /api/v1/bookings/:id/complete
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	vendorID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := c.service.CompleteBooking(ctx.Request.Context(), bookingID, vendorID)
	if err != nil {
		c.respondBookingError(ctx, err, "Failed to complete booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking completed successfully", booking, nil)
}

// GetAvailability godoc
// @Summary Salon availability grid
// @Description Returns the 30 minute slot grid for a salon on a given day. Slots overlapping pending or confirmed bookings are marked unavailable.
// @Tags bookings
// @Produce json
// @Param id path string true "Salon ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.StandardApiResponse{data=AvailabilityResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Router /salons/{id}/availability [get]
func (c *Controller) GetAvailability(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	date := ctx.Query("date")
	if date == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "date query parameter is required", nil, nil)
		return
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), salonID, date)
	if err != nil {
		c.respondBookingError(ctx, err, "Failed to get availability")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", availability, nil)
}

// respondBookingError maps service errors onto HTTP statuses. Conflict
// class errors (slot taken, invalid transition) return 409 so clients
// can distinguish retryable races from bad input.
func (c *Controller) respondBookingError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, salons.ErrSalonNotFound),
		errors.Is(err, services.ErrServiceNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not have access to this booking", nil, nil)
	case errors.Is(err, ErrSalonInactive),
		errors.Is(err, ErrPastTime),
		errors.Is(err, ErrTooManyItems),
		errors.Is(err, ErrServiceMismatch),
		errors.Is(err, ErrNotElapsed),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, cancellation.ErrCutoffPassed),
		errors.Is(err, cancellation.ErrCancellationDisabled):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
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
