package categories

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupCategoryRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes
	public := router.Group("/categories")
	{
		public.GET("", controller.GetActiveCategories)     // GET /api/v1/categories
		public.GET("/:slug", controller.GetCategoryBySlug) // GET /api/v1/categories/:slug
	}

	// Admin routes
	admin := router.Group("/admin/categories")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateCategory)
		admin.GET("", controller.GetAllCategories)
		admin.GET("/:id", controller.GetCategory)
		admin.PUT("/:id", controller.UpdateCategory)
		admin.DELETE("/:id", controller.DeleteCategory)
	}
}
