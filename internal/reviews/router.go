package reviews

import (
	"github.com/gin-gonic/gin"

	"playarena/internal/shared/config"
	"playarena/internal/shared/middleware"
)

func SetupReviewRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	router.GET("/events/:id/reviews", controller.ListEventReviews)

	authed := router.Group("")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("/events/:id/reviews", controller.CreateReview) // POST   /api/v1/events/:id/reviews
		authed.PUT("/reviews/:id", controller.UpdateReview)         // PUT    /api/v1/reviews/:id
		authed.DELETE("/reviews/:id", controller.DeleteReview)      // DELETE /api/v1/reviews/:id
	}
}
