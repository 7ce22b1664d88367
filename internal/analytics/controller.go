package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	GetDashboard(c *gin.Context)
	GetVendorDashboard(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

type windowQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// GetDashboard godoc
// @Summary Platform booking and settlement dashboard
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trend window in days" default(30)
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/analytics/dashboard [get]
func (ctrl *controller) GetDashboard(c *gin.Context) {
	var query windowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	dashboard, err := ctrl.service.GetDashboard(c.Request.Context(), query.Days)
	if err != nil {
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetVendorDashboard(c *gin.Context) {
	vendorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query windowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	dashboard, err := ctrl.service.GetVendorDashboard(c.Request.Context(), vendorID, query.Days)
	if err != nil {
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}
