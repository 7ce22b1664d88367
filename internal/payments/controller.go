package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

type Controller interface {
	RecordPayout(c *gin.Context)
	GetPayout(c *gin.Context)
	ListPayouts(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrPayoutNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrBookingNotSettled):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidAmount):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Payout operation failed", nil, err.Error())
	}
}

// RecordPayout godoc
// @Summary Record a vendor payout
// @Description Create or update the manual payout for a successful booking
// @Tags admin-payouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordPayoutRequest true "Payout"
// @Success 201 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /admin/payouts [post]
func (ctrl *controller) RecordPayout(c *gin.Context) {
	var req RecordPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	payout, err := ctrl.service.RecordPayout(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Payout recorded successfully", payout, nil)
}

func (ctrl *controller) GetPayout(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	payout, err := ctrl.service.GetPayout(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payout retrieved successfully", payout, nil)
}

func (ctrl *controller) ListPayouts(c *gin.Context) {
	var query PayoutListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	result, err := ctrl.service.ListPayouts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payouts retrieved successfully", result, nil)
}
