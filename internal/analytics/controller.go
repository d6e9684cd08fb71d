package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/shared/utils/response"
)

// Controller handles HTTP requests for vendor and admin analytics
type Controller struct {
	service Service
}

// NewController creates a new analytics controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetVendorDashboard godoc
// @Summary Vendor dashboard
// @Description Booking, revenue and review aggregates across all of the vendor's salons.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse{data=VendorDashboard}
// @Router /vendor/dashboard [get]
func (c *Controller) GetVendorDashboard(ctx *gin.Context) {
	vendorID, ok := vendorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	dashboard, err := c.service.GetVendorDashboard(ctx.Request.Context(), vendorID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get dashboard", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}

// GetVendorRevenue handles GET /api/v1/vendor/revenue?months=6
func (c *Controller) GetVendorRevenue(ctx *gin.Context) {
	vendorID, ok := vendorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	months, err := strconv.Atoi(ctx.DefaultQuery("months", "6"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid months parameter", nil, err.Error())
		return
	}

	revenue, err := c.service.GetVendorRevenue(ctx.Request.Context(), vendorID, months)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get revenue", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Revenue retrieved successfully", revenue, nil)
}

// GetAdminOverview handles GET /api/v1/admin/overview
func (c *Controller) GetAdminOverview(ctx *gin.Context) {
	overview, err := c.service.GetAdminOverview(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get overview", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Overview retrieved successfully", overview, nil)
}

func vendorFromContext(ctx *gin.Context) (uuid.UUID, bool) {
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
