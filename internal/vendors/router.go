package vendors

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
	"playarena/pkg/logger"
)

func SetupVendorRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := RegisterValidators(v); err != nil {
			logger.GetDefault().Error("Failed to register vendor validators", "error", err)
		}
	}

	vendors := router.Group("/vendors")
	vendors.Use(middleware.JWTAuthWithConfig(cfg))
	{
		vendors.POST("/apply", controller.Apply)        // POST /api/v1/vendors/apply
		vendors.GET("/me", controller.GetMyApplication) // GET  /api/v1/vendors/me
	}

	admin := router.Group("/admin/vendors")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListVendors)
		admin.GET("/:id", controller.GetVendor)
		admin.POST("/:id/approve", controller.Approve)
		admin.POST("/:id/reject", controller.Reject)
	}
}
