package bookings

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateOrder)          // POST /api/v1/bookings
		bookings.POST("/verify", controller.VerifyPayment) // POST /api/v1/bookings/verify
		bookings.GET("/me", controller.GetUserBookings)    // GET  /api/v1/bookings/me
		bookings.GET("/:id", controller.GetBooking)        // GET  /api/v1/bookings/:id
	}

	// the gateway authenticates with the body signature, not a JWT
	rg.POST("/payments/webhook", controller.PaymentWebhook)

	vendor := rg.Group("/vendor/bookings")
	vendor.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireVendor())
	{
		vendor.GET("", controller.GetVendorBookings)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetAllBookings)
	}
}
