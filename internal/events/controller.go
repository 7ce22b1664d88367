package events

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/schedule"
	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetVendorEvents(c *gin.Context)
	GetAdminEvents(c *gin.Context)
	GetCharts(c *gin.Context)
	ToggleChart(c *gin.Context)
	UpdateStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func actorFrom(c *gin.Context) Actor {
	id, _ := middleware.CurrentUserID(c)
	return Actor{UserID: id, IsAdmin: middleware.IsAdmin(c)}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidSchedule),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidTier),
		errors.Is(err, ErrNoTiers):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrChartNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	default:
		c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Event operation failed", nil, nil)
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid "+param, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// CreateEvent godoc
// @Summary Create an event with its schedule and ticket tiers
// @Tags vendor-events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event configuration"
// @Success 201 {object} response.StandardApiResponse
// @Router /vendor/events [post]
func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	vendorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), vendorID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created and awaiting approval", event, nil)
}

// UpdateEvent godoc
// @Summary Update an event; booking charts are reconciled when the schedule changes
// @Tags vendor-events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Fields to change"
// @Success 200 {object} response.StandardApiResponse
// @Router /vendor/events/{id} [put]
func (ctrl *controller) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.UpdateEvent(c.Request.Context(), id, actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", result, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.DeleteEvent(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

// GetAllEvents godoc
// @Summary Browse published events
// @Tags events
// @Produce json
// @Param search query string false "Search in name and description"
// @Param category query string false "Category slug"
// @Param city query string false "City"
// @Param date query string false "Only events bookable on this date (YYYY-MM-DD)"
// @Param is_online query bool false "Online events only"
// @Success 200 {object} response.StandardApiResponse
// @Router /events [get]
func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.ListEvents(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) GetVendorEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	vendorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.ListVendorEvents(c.Request.Context(), vendorID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) GetAdminEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.ListAllEvents(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

// GetCharts godoc
// @Summary List the booking charts of an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id}/charts [get]
func (ctrl *controller) GetCharts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	charts, err := ctrl.service.ListCharts(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking charts retrieved successfully", charts, nil)
}

func (ctrl *controller) ToggleChart(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}
	chartID, ok := parseID(c, "chartId")
	if !ok {
		return
	}

	var req ToggleChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	if err := ctrl.service.ToggleChart(c.Request.Context(), eventID, chartID, actorFrom(c), *req.IsBookingEnabled); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking chart updated", gin.H{"is_booking_enabled": *req.IsBookingEnabled}, nil)
}

func (ctrl *controller) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	if err := ctrl.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event status updated", gin.H{"status": req.Status}, nil)
}
