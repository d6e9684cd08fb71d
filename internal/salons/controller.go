package salons

import (
	"errors"
	"net/http"
	"strconv"

	"salonhub/internal/shared/utils/response"
	"salonhub/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// viewerID pulls the optionally-authenticated user out of the request
// context. Public browse endpoints use it to annotate is_favorited.
func viewerID(ctx *gin.Context) *uuid.UUID {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return nil
	}
	return &id
}

func actorFromContext(ctx *gin.Context) (uuid.UUID, users.Role, bool) {
	rawID, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(rawID.(string))
	if err != nil {
		return uuid.Nil, "", false
	}

	role := users.Role("")
	if rawRole, ok := ctx.Get("user_role"); ok {
		if roleStr, ok := rawRole.(string); ok {
			role = users.Role(roleStr)
		}
	}
	return id, role, true
}

// GetSalons godoc
// @Summary List salons
// @Description Browse active salons with search, city, rating and service filters
// @Tags salons
// @Produce json
// @Param search query string false "Match against name and description"
// @Param city query string false "City filter"
// @Param min_rating query number false "Minimum average rating"
// @Param service query string false "Offered service name filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.StandardApiResponse{data=PaginatedSalons}
// @Router /salons [get]
func (c *Controller) GetSalons(ctx *gin.Context) {
	var query SalonListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetSalons(ctx.Request.Context(), query, viewerID(ctx))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list salons", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salons retrieved successfully", result, nil)
}

// GetFeaturedSalons godoc
// @Summary Featured salons
// @Description Highest rated verified salons
// @Tags salons
// @Produce json
// @Param limit query int false "Max results (default 10, cap 20)"
// @Success 200 {object} response.StandardApiResponse{data=[]SalonResponse}
// @Router /salons/featured [get]
func (c *Controller) GetFeaturedSalons(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	result, err := c.service.GetFeaturedSalons(ctx.Request.Context(), limit, viewerID(ctx))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get featured salons", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Featured salons retrieved successfully", result, nil)
}

func (c *Controller) GetSalon(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	salon, err := c.service.GetSalon(ctx.Request.Context(), salonID, viewerID(ctx))
	if err != nil {
		c.respondSalonError(ctx, err, "Failed to get salon")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon retrieved successfully", salon, nil)
}

func (c *Controller) GetSalonBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if slug == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Salon slug is required", nil, nil)
		return
	}

	salon, err := c.service.GetSalonBySlug(ctx.Request.Context(), slug, viewerID(ctx))
	if err != nil {
		c.respondSalonError(ctx, err, "Failed to get salon")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon retrieved successfully", salon, nil)
}

// CreateSalon godoc
// @Summary Create a salon
// @Description Register a new salon under the authenticated vendor
// @Tags salons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSalonRequest true "Salon details"
// @Success 201 {object} response.StandardApiResponse{data=SalonResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Router /salons [post]
func (c *Controller) CreateSalon(ctx *gin.Context) {
	var req CreateSalonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	salon, err := c.service.CreateSalon(ctx.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidHours) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create salon", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Salon created successfully", salon, nil)
}

func (c *Controller) GetVendorSalons(ctx *gin.Context) {
	ownerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	salons, err := c.service.GetVendorSalons(ctx.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get salons", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salons retrieved successfully", salons, nil)
}

func (c *Controller) UpdateSalon(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req UpdateSalonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	salon, err := c.service.UpdateSalon(ctx.Request.Context(), salonID, actorID, actorRole, req)
	if err != nil {
		c.respondSalonError(ctx, err, "Failed to update salon")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon updated successfully", salon, nil)
}

func (c *Controller) DeleteSalon(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	actorID, actorRole, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.DeleteSalon(ctx.Request.Context(), salonID, actorID, actorRole); err != nil {
		c.respondSalonError(ctx, err, "Failed to delete salon")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon deleted successfully", nil, nil)
}

func (c *Controller) VerifySalon(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req VerifySalonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	salon, err := c.service.VerifySalon(ctx.Request.Context(), salonID, req.Verified)
	if err != nil {
		c.respondSalonError(ctx, err, "Failed to verify salon")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon verification updated", salon, nil)
}

// ============= IMAGES =============

func (c *Controller) AddSalonImage(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	var req AddImageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	image, err := c.service.AddImage(ctx.Request.Context(), salonID, ownerID, req)
	if err != nil {
		c.respondSalonError(ctx, err, "Failed to add salon image")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Salon image added successfully", image, nil)
}

func (c *Controller) DeleteSalonImage(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	imageID, err := uuid.Parse(ctx.Param("imageId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid image ID", nil, err.Error())
		return
	}

	ownerID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.DeleteImage(ctx.Request.Context(), salonID, imageID, ownerID); err != nil {
		c.respondSalonError(ctx, err, "Failed to delete salon image")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon image deleted successfully", nil, nil)
}

// ============= FAVORITES =============

func (c *Controller) ListFavorites(ctx *gin.Context) {
	userID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	salons, err := c.service.ListFavorites(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list favorites", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Favorites retrieved successfully", salons, nil)
}

func (c *Controller) AddFavorite(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("salonId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	userID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.AddFavorite(ctx.Request.Context(), userID, salonID); err != nil {
		switch {
		case errors.Is(err, ErrSalonNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
		case errors.Is(err, ErrAlreadyFavorited):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Salon already in favorites", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to add favorite", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Salon added to favorites", nil, nil)
}

func (c *Controller) RemoveFavorite(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("salonId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid salon ID", nil, err.Error())
		return
	}

	userID, _, ok := actorFromContext(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := c.service.RemoveFavorite(ctx.Request.Context(), userID, salonID); err != nil {
		switch {
		case errors.Is(err, ErrFavoriteNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not in favorites", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to remove favorite", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Salon removed from favorites", nil, nil)
}

// ============= HELPERS =============

func (c *Controller) respondSalonError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSalonNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon not found", nil, nil)
	case errors.Is(err, ErrImageNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Salon image not found", nil, nil)
	case errors.Is(err, ErrNotSalonOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You do not own this salon", nil, nil)
	case errors.Is(err, ErrInvalidHours):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
