package events

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - anyone can browse; owners and admins also see unpublished events
	publicEvents := router.Group("/events")
	publicEvents.Use(middleware.OptionalAuthWithConfig(cfg))
	{
		publicEvents.GET("", controller.GetAllEvents)         // GET /api/v1/events
		publicEvents.GET("/:id", controller.GetEvent)         // GET /api/v1/events/:id
		publicEvents.GET("/:id/charts", controller.GetCharts) // GET /api/v1/events/:id/charts
	}

	// Vendor routes - approved vendors manage their own events
	vendorEvents := router.Group("/vendor/events")
	vendorEvents.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireVendor())
	{
		vendorEvents.POST("", controller.CreateEvent)
		vendorEvents.GET("", controller.GetVendorEvents)
		vendorEvents.PUT("/:id", controller.UpdateEvent)
		vendorEvents.DELETE("/:id", controller.DeleteEvent)
		vendorEvents.PATCH("/:id/charts/:chartId", controller.ToggleChart)
	}

	// Admin routes - moderation
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminEvents.GET("", controller.GetAdminEvents)
		adminEvents.PATCH("/:id/status", controller.UpdateStatus)
		adminEvents.DELETE("/:id", controller.DeleteEvent)
	}
}
