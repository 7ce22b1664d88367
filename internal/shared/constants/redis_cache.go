package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Pattern: playarena:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for event details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for event listings
)

const (
	TTL_DYNAMIC_QUICK = 2 * time.Minute // 2 minutes - for booking chart availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "playarena"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :hash
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
	CACHE_KEY_EVENT_CHARTS = CACHE_PREFIX + ":events:charts:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_EVENT_CHARTS = TTL_DYNAMIC_QUICK      // 2 minutes
)

// ================== CATEGORIES MODULE ==================

const (
	CACHE_KEY_CATEGORIES_ACTIVE = CACHE_PREFIX + ":categories:active:all"
	CACHE_KEY_CATEGORY_BY_SLUG  = CACHE_PREFIX + ":categories:detail:slug:" // + slug
)

const (
	TTL_CATEGORIES_ACTIVE = TTL_STATIC_LONG // 24 hours
)

// ================== VENDORS MODULE ==================

const (
	CACHE_KEY_VENDOR_GST = CACHE_PREFIX + ":vendors:gst:uuid:" // + vendor user id
)

const (
	TTL_VENDOR_GST = TTL_STATIC_SHORT // 6 hours
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_ADMIN  = CACHE_PREFIX + ":analytics:admin:days:"
	CACHE_KEY_ANALYTICS_VENDOR = CACHE_PREFIX + ":analytics:vendor:uuid:" // + vendor id + days
)

const (
	TTL_ANALYTICS = 5 * time.Minute
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_LIST     = CACHE_PREFIX + ":events:list*"
	PATTERN_INVALIDATE_CATEGORIES_ALL = CACHE_PREFIX + ":categories:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildEventListKey keys a listing by its normalised filter string
// Example: BuildEventListKey("page=1&limit=10&city=pune") -> "playarena:events:list:page=1&limit=10&city=pune"
func BuildEventListKey(filters string) string {
	return fmt.Sprintf("%s:%s", CACHE_KEY_EVENTS_LIST, filters)
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildEventChartsKey(eventID string) string {
	return CACHE_KEY_EVENT_CHARTS + eventID
}

func BuildCategoryBySlugKey(slug string) string {
	return CACHE_KEY_CATEGORY_BY_SLUG + slug
}

func BuildVendorGSTKey(vendorUserID string) string {
	return CACHE_KEY_VENDOR_GST + vendorUserID
}

func BuildAdminAnalyticsKey(days int) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_ANALYTICS_ADMIN, days)
}

func BuildVendorAnalyticsKey(vendorID string, days int) string {
	return fmt.Sprintf("%s%s:days:%d", CACHE_KEY_ANALYTICS_VENDOR, vendorID, days)
}
