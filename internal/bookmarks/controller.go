package bookmarks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/events"
	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	Toggle(c *gin.Context)
	Status(c *gin.Context)
	ListMine(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// Toggle godoc
// @Summary Toggle a bookmark on an event
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /events/{id}/bookmark [post]
func (ctrl *controller) Toggle(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.Toggle(c.Request.Context(), userID, eventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to toggle bookmark", nil, err.Error())
		return
	}

	msg := "Bookmark removed"
	if result.Bookmarked {
		msg = "Event bookmarked"
	}
	response.RespondJSON(c, "success", http.StatusOK, msg, result, nil)
}

func (ctrl *controller) Status(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.Status(c.Request.Context(), userID, eventID)
	if err != nil {
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to read bookmark", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookmark status retrieved", result, nil)
}

func (ctrl *controller) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.service.ListMine(c.Request.Context(), userID, page, limit)
	if err != nil {
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list bookmarks", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookmarks retrieved successfully", result, nil)
}
