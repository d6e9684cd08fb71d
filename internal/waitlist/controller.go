package waitlist

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/salons"
	"salonhub/internal/shared/utils/response"
	"salonhub/internal/users"
)

// Controller handles HTTP requests for the booking waitlist
type Controller struct {
	service Service
}

// NewController creates a new waitlist controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// JoinWaitlist godoc
// @Summary Join a salon's waitlist
// @Description Registers interest in a time window at a salon. When a booking in that window is cancelled the customer is notified that the slot is open again.
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JoinWaitlistRequest true "Desired salon and time window"
// @Success 201 {object} response.StandardApiResponse{data=WaitlistEntryResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /waitlist [post]
func (c *Controller) JoinWaitlist(ctx *gin.Context) {
	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req JoinWaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	entry, err := c.service.Join(ctx.Request.Context(), customerID, &req)
	if err != nil {
		c.respondWaitlistError(ctx, err, "Failed to join waitlist")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Joined waitlist successfully", entry, nil)
}

// LeaveWaitlist handles DELETE /api/v1/waitlist/:id
func (c *Controller) LeaveWaitlist(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid waitlist entry ID", nil, err.Error())
		return
	}

	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.Leave(ctx.Request.Context(), entryID, customerID); err != nil {
		c.respondWaitlistError(ctx, err, "Failed to leave waitlist")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Left waitlist successfully", nil, nil)
}

// GetMyWaitlist handles GET /api/v1/waitlist
func (c *Controller) GetMyWaitlist(ctx *gin.Context) {
	customerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	entries, err := c.service.GetMyEntries(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get waitlist entries", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist entries retrieved successfully", entries, nil)
}

func (c *Controller) respondWaitlistError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEntryNotFound),
		errors.Is(err, salons.ErrSalonNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrAlreadyOnWaitlist),
		errors.Is(err, ErrEntryClosed):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrNotEntryOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not have access to this waitlist entry", nil, nil)
	case errors.Is(err, ErrInvalidWindow),
		errors.Is(err, ErrSalonInactive):
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
