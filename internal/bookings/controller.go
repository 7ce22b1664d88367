package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playarena/internal/payments"
	"playarena/internal/shared/middleware"
	"playarena/internal/shared/utils/response"
)

// SignatureHeader carries the webhook HMAC
const SignatureHeader = "X-Razorpay-Signature"

type Controller interface {
	CreateOrder(c *gin.Context)
	VerifyPayment(c *gin.Context)
	PaymentWebhook(c *gin.Context)
	GetBooking(c *gin.Context)
	GetUserBookings(c *gin.Context)
	GetVendorBookings(c *gin.Context)
	GetAllBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func respondError(c *gin.Context, err error) {
	var capErr *CapacityError
	switch {
	case errors.As(err, &capErr):
		response.RespondJSON(c, "error", http.StatusConflict, capErr.Error(), gin.H{"remaining": capErr.Remaining}, nil)
	case IsNotFound(err), errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrUnknownTier),
		errors.Is(err, ErrMixedCurrency), errors.Is(err, ErrMembersRequired), errors.Is(err, payments.ErrInvalidSignature):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrEventNotBookable), errors.Is(err, ErrBookingFinalized):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrGatewayFailed):
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusBadGateway, "Payment gateway unavailable, please retry", nil, nil)
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Booking operation failed", nil, err.Error())
	}
}

func actorFrom(c *gin.Context) (Actor, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return Actor{}, false
	}
	return Actor{UserID: userID, IsAdmin: middleware.IsAdmin(c)}, true
}

// CreateOrder godoc
// @Summary Create a booking order
// @Description Validate capacity, reserve seats and open a gateway order
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 502 {object} response.StandardApiResponse
// @Router /bookings [post]
func (ctrl *controller) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	order, err := ctrl.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking order created successfully", order, nil)
}

// VerifyPayment godoc
// @Summary Verify a checkout payment
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyPaymentRequest true "Gateway callback"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/verify [post]
func (ctrl *controller) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.ValidationErrors(err))
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.VerifyPayment(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment verified successfully", booking, nil)
}

// PaymentWebhook godoc
// @Summary Gateway payment webhook
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "HMAC of the raw body"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /payments/webhook [post]
func (ctrl *controller) PaymentWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Unreadable request body", nil, err.Error())
		return
	}

	if err := ctrl.service.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader)); err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Webhook processed", nil, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	ctrl.listBookings(c, func(q BookingListQuery, userID uuid.UUID) (*PaginatedBookings, error) {
		return ctrl.service.ListUserBookings(c.Request.Context(), userID, q)
	})
}

func (ctrl *controller) GetVendorBookings(c *gin.Context) {
	ctrl.listBookings(c, func(q BookingListQuery, vendorID uuid.UUID) (*PaginatedBookings, error) {
		return ctrl.service.ListVendorBookings(c.Request.Context(), vendorID, q)
	})
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	ctrl.listBookings(c, func(q BookingListQuery, _ uuid.UUID) (*PaginatedBookings, error) {
		return ctrl.service.ListAllBookings(c.Request.Context(), q)
	})
}

func (ctrl *controller) listBookings(c *gin.Context, fetch func(BookingListQuery, uuid.UUID) (*PaginatedBookings, error)) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.ValidationErrors(err))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := fetch(query, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}
