package analytics

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	admin := rg.Group("/admin/analytics")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboard)
	}

	vendor := rg.Group("/vendor/analytics")
	vendor.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireVendor())
	{
		vendor.GET("/dashboard", controller.GetVendorDashboard)
	}
}
