package categories

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonhub/internal/shared/utils/response"
)

type Controller interface {
	CreateCategory(c *gin.Context)
	GetCategory(c *gin.Context)
	GetCategoryBySlug(c *gin.Context)
	UpdateCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
	GetAllCategories(c *gin.Context)
	GetActiveCategories(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return
	}

	category, err := ctrl.service.CreateCategory(c.Request.Context(), adminUUID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryExists):
			response.RespondJSON(c, "error", http.StatusConflict, "Category with this name already exists", nil, nil)
		case errors.Is(err, ErrInvalidName):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create category", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Category created successfully", category, nil)
}

func (ctrl *controller) GetCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	category, err := ctrl.service.GetCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Category not found", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get category", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (ctrl *controller) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Category slug is required", nil, nil)
		return
	}

	category, err := ctrl.service.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Category not found", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get category", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (ctrl *controller) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return
	}

	category, err := ctrl.service.UpdateCategory(c.Request.Context(), categoryID, adminUUID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Category not found", nil, nil)
		case errors.Is(err, ErrCategoryExists):
			response.RespondJSON(c, "error", http.StatusConflict, "Category with this name already exists", nil, nil)
		case errors.Is(err, ErrInvalidName):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update category", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category updated successfully", category, nil)
}

func (ctrl *controller) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Category not found", nil, nil)
		case errors.Is(err, ErrCategoryInUse):
			response.RespondJSON(c, "error", http.StatusConflict, "Category is used by existing services. Deactivate it instead", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to delete category", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllCategories(c *gin.Context) {
	var query CategoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	categories, err := ctrl.service.GetAllCategories(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get categories", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Categories retrieved successfully", categories, nil)
}

func (ctrl *controller) GetActiveCategories(c *gin.Context) {
	categories, err := ctrl.service.GetActiveCategories(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get categories", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Categories retrieved successfully", categories, nil)
}
