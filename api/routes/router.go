// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"playarena/internal/analytics"
	"playarena/internal/auth"
	"playarena/internal/bookings"
	"playarena/internal/bookmarks"
	"playarena/internal/categories"
	"playarena/internal/events"
	"playarena/internal/notifications"
	"playarena/internal/payments"
	"playarena/internal/reviews"
	"playarena/internal/shared/config"
	"playarena/internal/shared/constants"
	"playarena/internal/shared/database"
	"playarena/internal/vendors"
	"playarena/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	publisher notifications.Publisher

	// shared between route groups for dependency injection
	categoryService categories.Service
	eventRepo       events.Repository
	eventService    events.Service
	vendorService   vendors.Service
	bookingService  bookings.Service
}

// NewRouter creates a new router instance. publisher may be nil.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
	if db.Redis != nil {
		r.cache = cache.NewService(db.Redis)
	}
	if r.publisher == nil {
		r.publisher = notifications.NoopPublisher{}
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// order matters: each group injects services built by the ones above it
		r.setupCategoryRoutes(api)
		r.setupEventRoutes(api)
		r.setupVendorRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPayoutRoutes(api)
		r.setupReviewRoutes(api)
		r.setupBookmarkRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "playarena-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "playarena-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "operational",
			"api_version":  r.config.APIVersion,
			"kafka":        r.config.Kafka.Enabled,
			"redis_cache":  r.cache != nil,
			"rate_limited": r.config.RateLimit.Enabled,
			"timestamp":    time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController, r.config)
}

func (r *Router) setupCategoryRoutes(rg *gin.RouterGroup) {
	categoryRepo := categories.NewRepository(r.db.GetPostgreSQL())
	r.categoryService = categories.NewService(categoryRepo, r.cache)

	categories.SetupCategoryRoutes(rg, categories.NewController(r.categoryService), r.config)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	r.eventRepo = events.NewRepository(r.db.GetPostgreSQL())
	r.eventService = events.NewService(r.eventRepo, events.CacheTTL{
		List:   constants.TTL_EVENT_LIST,
		Detail: r.config.Redis.EventDetailTTL,
		Charts: r.config.Redis.ChartListTTL,
	})

	if r.cache != nil {
		r.eventService.SetCacheService(r.cache)
	}
	r.eventService.SetCategoryChecker(r.categoryService)

	events.SetupEventRoutes(rg, events.NewController(r.eventService), r.config)
}

func (r *Router) setupVendorRoutes(rg *gin.RouterGroup) {
	vendorRepo := vendors.NewRepository(r.db.GetPostgreSQL())
	r.vendorService = vendors.NewService(vendorRepo, r.cache)

	vendors.SetupVendorRoutes(rg, vendors.NewController(r.vendorService), r.config)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	gw := r.config.PaymentGateway
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo, r.eventRepo, payments.NewClient(gw), bookings.Options{
		Rates:         r.config.Settlement,
		KeyID:         gw.KeyID,
		KeySecret:     gw.KeySecret,
		WebhookSecret: gw.WebhookSecret,
		Currency:      gw.Currency,
	})

	r.bookingService.SetPublisher(r.publisher)
	r.bookingService.SetVendorDirectory(r.vendorService)
	r.bookingService.SetChartInvalidator(r.eventService)

	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService), r.config)
}

func (r *Router) setupPayoutRoutes(rg *gin.RouterGroup) {
	payoutRepo := payments.NewRepository(r.db.GetPostgreSQL())
	payoutService := payments.NewService(payoutRepo, r.bookingService, r.publisher)

	payments.SetupPayoutRoutes(rg, payments.NewController(payoutService), r.config)
}

func (r *Router) setupReviewRoutes(rg *gin.RouterGroup) {
	reviewRepo := reviews.NewRepository(r.db.GetPostgreSQL())
	reviewService := reviews.NewService(reviewRepo, r.bookingService)

	reviews.SetupReviewRoutes(rg, reviews.NewController(reviewService), r.config)
}

func (r *Router) setupBookmarkRoutes(rg *gin.RouterGroup) {
	bookmarkRepo := bookmarks.NewRepository(r.db.GetPostgreSQL())
	bookmarkService := bookmarks.NewService(bookmarkRepo, r.eventRepo)

	bookmarks.SetupBookmarkRoutes(rg, bookmarks.NewController(bookmarkService), r.config)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsService := analytics.NewService(analytics.NewRepository(r.db.GetPostgreSQL()))
	if r.cache != nil {
		analyticsService.SetCacheService(r.cache)
	}

	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(analyticsService), r.config)
}
