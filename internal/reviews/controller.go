package reviews

import (
	"errors"
	"net/http"

	"salonhub/internal/salons"
	"salonhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateReview godoc
// @Summary Review a salon
// @Description One review per customer per salon, rating 1 to 5
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Salon ID"
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} response.StandardApiResponse{data=ReviewResponse}
// @Failure 409 {object} response.StandardApiResponse
// @Router /salons/{id}/reviews [post]
func (c *Controller) CreateReview(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rawID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	customerID, err := uuid.Parse(rawID.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return
	}

	review, err := c.service.CreateReview(ctx.Request.Context(), salonID, customerID, req)
	if err != nil {
		switch {
		case errors.Is(err, salons.ErrSalonNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
		case errors.Is(err, ErrAlreadyReviewed):
			response.RespondJSON(ctx, "error", http.StatusConflict, "You have already reviewed this salon", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create review", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Review created successfully", review, nil)
}

func (c *Controller) GetSalonReviews(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var query ReviewListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	reviews, err := c.service.GetSalonReviews(ctx.Request.Context(), salonID, query)
	if err != nil {
		if errors.Is(err, salons.ErrSalonNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get reviews", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reviews retrieved successfully", reviews, nil)
}
