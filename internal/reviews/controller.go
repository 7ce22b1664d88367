package reviews

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	CreateReview(c *gin.Context)
	UpdateReview(c *gin.Context)
	DeleteReview(c *gin.Context)
	ListEventReviews(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReviewNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrAlreadyReviewed):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Review operation failed", nil, err.Error())
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// CreateReview godoc
// @Summary Review an attended event
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body ReviewRequest true "Rating and comment"
// @Success 201 {object} response.StandardApiResponse
// @Failure 403 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /events/{id}/reviews [post]
func (ctrl *controller) CreateReview(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	review, err := ctrl.service.CreateReview(c.Request.Context(), userID, eventID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Review created successfully", review, nil)
}

func (ctrl *controller) UpdateReview(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	review, err := ctrl.service.UpdateReview(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Review updated successfully", review, nil)
}

func (ctrl *controller) DeleteReview(c *gin.Context) {
	reviewID, ok := parseID(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.DeleteReview(c.Request.Context(), userID, middleware.IsAdmin(c), reviewID); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Review deleted successfully", nil, nil)
}

// ListEventReviews godoc
// @Summary List reviews of an event
// @Tags reviews
// @Produce json
// @Param id path string true "Event ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id}/reviews [get]
func (ctrl *controller) ListEventReviews(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var query ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.ListEventReviews(c.Request.Context(), eventID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reviews retrieved successfully", result, nil)
}
