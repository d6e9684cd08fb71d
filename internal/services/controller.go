package services

import (
	"errors"
	"net/http"

	"salonhub/internal/categories"
	"salonhub/internal/salons"
	"salonhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service CatalogService
}

func NewController(service CatalogService) *Controller {
	return &Controller{service: service}
}

// GetSalonServices godoc
// @Summary List a salon's services
// @Tags services
// @Produce json
// @Param id path string true "Salon ID"
// @Success 200 {object} response.StandardApiResponse{data=[]ServiceResponse}
// @Router /salons/{id}/services [get]
func (c *Controller) GetSalonServices(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var query ServiceListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	// Inactive rows are owner-only; the public listing always filters
	// them regardless of the query flag
	if _, authed := ctx.Get("user_id"); !authed {
		query.IncludeInactive = false
	}

	items, err := c.service.GetSalonServices(ctx.Request.Context(), salonID, query)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to list services")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Services retrieved successfully", items, nil)
}

func (c *Controller) GetService(ctx *gin.Context) {
	serviceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid service ID", nil, err.Error())
		return
	}

	service, err := c.service.GetService(ctx.Request.Context(), serviceID)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to get service")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Service retrieved successfully", service, nil)
}

// CreateService godoc
// @Summary Add a service to a salon
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Salon ID"
// @Param request body CreateServiceRequest true "Service details"
// @Success 201 {object} response.StandardApiResponse{data=ServiceResponse}
// @Router /salons/{id}/services [post]
func (c *Controller) CreateService(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req CreateServiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, err := userIDFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	service, err := c.service.CreateService(ctx.Request.Context(), salonID, ownerID, req)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to create service")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Service created successfully", service, nil)
}

func (c *Controller) UpdateService(ctx *gin.Context) {
	serviceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid service ID", nil, err.Error())
		return
	}

	var req UpdateServiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, err := userIDFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	service, err := c.service.UpdateService(ctx.Request.Context(), serviceID, ownerID, req)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to update service")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Service updated successfully", service, nil)
}

func (c *Controller) DeleteService(ctx *gin.Context) {
	serviceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid service ID", nil, err.Error())
		return
	}

	ownerID, err := userIDFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.DeleteService(ctx.Request.Context(), serviceID, ownerID); err != nil {
		c.respondServiceError(ctx, err, "Failed to delete service")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Service deleted successfully", nil, nil)
}

func (c *Controller) respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Service not found", nil, nil)
	case errors.Is(err, salons.ErrSalonNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
	case errors.Is(err, categories.ErrCategoryNotFound):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Category not found", nil, nil)
	case errors.Is(err, salons.ErrNotSalonOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not own this salon", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errors.New("user not authenticated")
	}
	return uuid.Parse(raw.(string))
}
