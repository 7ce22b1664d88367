package bookmarks

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupBookmarkRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	authed := router.Group("")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("/events/:id/bookmark", controller.Toggle) // POST /api/v1/events/:id/bookmark
		authed.GET("/events/:id/bookmark", controller.Status)  // GET  /api/v1/events/:id/bookmark
		authed.GET("/bookmarks/me", controller.ListMine)       // GET  /api/v1/bookmarks/me
	}
}
