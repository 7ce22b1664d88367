package categories

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
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

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrCategoryExists), errors.Is(err, ErrCategoryInUse):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidName):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Category operation failed", nil, err.Error())
	}
}

func (ctrl *controller) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	category, err := ctrl.service.CreateCategory(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Category created successfully", category, nil)
}

func (ctrl *controller) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	category, err := ctrl.service.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (ctrl *controller) GetCategoryBySlug(c *gin.Context) {
	category, err := ctrl.service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (ctrl *controller) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	category, err := ctrl.service.UpdateCategory(c.Request.Context(), id, adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category updated successfully", category, nil)
}

func (ctrl *controller) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid category ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Category deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllCategories(c *gin.Context) {
	var query CategoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.GetAllCategories(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Categories retrieved successfully", result, nil)
}

func (ctrl *controller) GetActiveCategories(c *gin.Context) {
	result, err := ctrl.service.GetActiveCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Categories retrieved successfully", result, nil)
}
