package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
		PublicRequests:  100,
		AuthRequests:    10,
		BookingRequests: 20,
		AdminRequests:   200,
		WebhookRequests: 300,
		WhitelistedIPs:  []string{"10.0.0.1"},
	}
}

func TestGetRateLimitType(t *testing.T) {
	cases := map[string]RateLimitType{
		"/health":                         RateLimitTypeHealth,
		"/api/v1/payments/webhook":        RateLimitTypeWebhook,
		"/api/v1/admin/events/:id/status": RateLimitTypeAdmin,
		"/api/v1/auth/login":              RateLimitTypeAuth,
		"/api/v1/bookings":                RateLimitTypeBooking,
		"/api/v1/bookings/verify":         RateLimitTypeBooking,
		"/api/v1/vendor/events":           RateLimitTypeBooking,
		"/api/v1/events/:id/charts":       RateLimitTypePublic,
		"/api/v1/categories":              RateLimitTypePublic,
		"/api/v1/bookmarks/me":            RateLimitTypePublic,
		"/api/v1/vendors/apply":           RateLimitTypeBooking,
		"/api/v1/users/me":                RateLimitTypeDefault,
	}

	for path, want := range cases {
		assert.Equal(t, want, getRateLimitType(path), path)
	}
}

func TestIsAllowed_DisabledSkipsRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, testConfig())

	result, err := limiter.IsAllowed(context.Background(), "192.168.1.1", RateLimitTypeAuth)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Limit)
}

func TestIsAllowed_WhitelistedSkipsRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = true
	limiter := NewRateLimiter(nil, cfg)

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeWebhook)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 300, result.Remaining)
}

func TestMiddleware_SetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(NewRateLimiter(nil, testConfig())))
	engine.GET("/api/v1/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestMiddleware_FailsOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Enabled = true
	engine := gin.New()
	engine.Use(Middleware(NewRateLimiter(nil, cfg)))
	engine.POST("/api/v1/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"real ip when forwarded is junk", map[string]string{"X-Forwarded-For": "nope", "X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"socket peer", nil, "192.0.2.1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(c))
		})
	}
}
