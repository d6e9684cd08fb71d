package cancellation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/salons"
	"salonhub/internal/shared/utils/response"
)

// Controller handles HTTP requests for cancellation policies and records
type Controller struct {
	service Service
}

// NewController creates a new cancellation controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetPolicy handles GET /api/v1/salons/:id/cancellation-policy
func (c *Controller) GetPolicy(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	policy, err := c.service.GetPolicy(ctx.Request.Context(), salonID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPolicyNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "This salon has not published a cancellation policy", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get cancellation policy", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation policy retrieved successfully", policy, nil)
}

// UpsertPolicy handles PUT /api/v1/salons/:id/cancellation-policy
func (c *Controller) UpsertPolicy(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req PolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	vendorID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	policy, err := c.service.UpsertPolicy(ctx.Request.Context(), salonID, vendorID, req)
	if err != nil {
		switch {
		case errors.Is(err, salons.ErrSalonNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
		case errors.Is(err, salons.ErrNotSalonOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not own this salon", nil, nil)
		case errors.Is(err, ErrInvalidFee):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to save cancellation policy", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation policy saved successfully", policy, nil)
}

// GetCancellation handles GET /api/v1/cancellations/:id
func (c *Controller) GetCancellation(ctx *gin.Context) {
	cancellationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid cancellation ID", nil, err.Error())
		return
	}

	customerID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	cancellation, err := c.service.GetCancellation(ctx.Request.Context(), cancellationID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCancellationNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Cancellation not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get cancellation", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation retrieved successfully", cancellation, nil)
}

// GetMyCancellations handles GET /api/v1/cancellations
func (c *Controller) GetMyCancellations(ctx *gin.Context) {
	customerID, ok := userIDFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	cancellations, err := c.service.GetCustomerCancellations(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get cancellations", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellations retrieved successfully", gin.H{
		"cancellations": cancellations,
		"count":         len(cancellations),
	}, nil)
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
