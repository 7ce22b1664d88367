package vendors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	Apply(c *gin.Context)
	GetMyApplication(c *gin.Context)
	ListVendors(c *gin.Context)
	GetVendor(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVendorNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrGSTINMismatch):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrAlreadyApplied), errors.Is(err, ErrAlreadyVendor), errors.Is(err, ErrNotPending):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Vendor operation failed", nil, err.Error())
	}
}

// Apply godoc
// @Summary Apply to become a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApplyRequest true "Business and payout details"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /vendors/apply [post]
func (ctrl *controller) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	vendor, err := ctrl.service.Apply(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Vendor application submitted", vendor, nil)
}

func (ctrl *controller) GetMyApplication(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	vendor, err := ctrl.service.GetMyApplication(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Vendor application retrieved", vendor, nil)
}

// ListVendors godoc
// @Summary List vendor applications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/vendors [get]
func (ctrl *controller) ListVendors(c *gin.Context) {
	var query VendorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.ListVendors(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Vendors retrieved successfully", result, nil)
}

func (ctrl *controller) GetVendor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid vendor ID", nil, err.Error())
		return
	}

	vendor, err := ctrl.service.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Vendor retrieved successfully", vendor, nil)
}

// Approve godoc
// @Summary Approve a vendor application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /admin/vendors/{id}/approve [post]
func (ctrl *controller) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid vendor ID", nil, err.Error())
		return
	}

	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	vendor, err := ctrl.service.Approve(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Vendor approved", vendor, nil)
}

func (ctrl *controller) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid vendor ID", nil, err.Error())
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	vendor, err := ctrl.service.Reject(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Vendor rejected", vendor, nil)
}
