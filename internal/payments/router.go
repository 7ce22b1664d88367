package payments

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupPayoutRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	admin := router.Group("/admin/payouts")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.RecordPayout)
		admin.GET("", controller.ListPayouts)
		admin.GET("/:bookingId", controller.GetPayout)
	}
}
