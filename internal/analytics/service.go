package analytics

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"playarena/internal/shared/constants"
	"playarena/pkg/cache"
	"playarena/pkg/logger"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
	topEventsLimit    = 5

	dateLayout = "2006-01-02"
)

type Service interface {
	GetDashboard(ctx context.Context, days int) (*Dashboard, error)
	GetVendorDashboard(ctx context.Context, vendorID uuid.UUID, days int) (*Dashboard, error)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo  Repository
	cache cache.Service
	now   func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cache = cacheService
}

// ClampWindow bounds the trend window to [1, MaxWindowDays], defaulting empty input
func ClampWindow(days int) int {
	switch {
	case days <= 0:
		return DefaultWindowDays
	case days > MaxWindowDays:
		return MaxWindowDays
	default:
		return days
	}
}

func (s *service) GetDashboard(ctx context.Context, days int) (*Dashboard, error) {
	days = ClampWindow(days)
	return s.cached(ctx, constants.BuildAdminAnalyticsKey(days), func() (*Dashboard, error) {
		return s.build(ctx, Scope{}, days)
	})
}

func (s *service) GetVendorDashboard(ctx context.Context, vendorID uuid.UUID, days int) (*Dashboard, error) {
	days = ClampWindow(days)
	return s.cached(ctx, constants.BuildVendorAnalyticsKey(vendorID.String(), days), func() (*Dashboard, error) {
		return s.build(ctx, Scope{VendorID: &vendorID}, days)
	})
}

func (s *service) cached(ctx context.Context, key string, build func() (*Dashboard, error)) (*Dashboard, error) {
	if s.cache == nil {
		return build()
	}

	var dashboard Dashboard
	fetch := func() (interface{}, error) { return build() }
	if err := s.cache.GetOrSet(ctx, key, constants.TTL_ANALYTICS, fetch, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (s *service) build(ctx context.Context, scope Scope, days int) (*Dashboard, error) {
	start := time.Now()
	defer func() {
		logger.GetDefault().DebugWithContext(ctx, "Dashboard built", map[string]interface{}{
			"vendor_scoped": scope.VendorID != nil,
			"days":          days,
			"took_ms":       time.Since(start).Milliseconds(),
		})
	}()

	bookings, err := s.repo.GetBookingOverview(ctx, scope)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.GetRevenueOverview(ctx, scope)
	if err != nil {
		return nil, err
	}
	payouts, err := s.repo.GetPayoutOverview(ctx, scope)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.CountEventsByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.GetTopEvents(ctx, scope, topEventsLimit)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -(days - 1))
	daily, err := s.repo.GetDailyMetrics(ctx, scope, from.Format(dateLayout), now.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	payouts.Outstanding = round2(math.Max(revenue.NetPayable-payouts.PaidOut, 0))
	dashboard := &Dashboard{
		Bookings:    bookings,
		Revenue:     roundRevenue(revenue),
		Payouts:     payouts,
		Events:      events,
		TopEvents:   nonNil(top),
		DailyTrend:  fillDays(daily, from, days),
		WindowDays:  days,
		GeneratedAt: now,
	}

	// platform-wide sections are hidden from vendors
	if scope.VendorID == nil {
		if dashboard.Users, err = s.repo.CountUsersByRole(ctx); err != nil {
			return nil, err
		}
		categories, err := s.repo.GetCategoryPerformance(ctx)
		if err != nil {
			return nil, err
		}
		dashboard.Categories = nonNil(categories)
	}

	return dashboard, nil
}

// fillDays returns one entry per day of the window, zeroing days without sales
func fillDays(rows []DailyMetric, start time.Time, days int) []DailyMetric {
	byDate := make(map[string]DailyMetric, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	out := make([]DailyMetric, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		metric, ok := byDate[date]
		if !ok {
			metric = DailyMetric{Date: date}
		}
		metric.Gross = round2(metric.Gross)
		out = append(out, metric)
	}
	return out
}

func roundRevenue(r RevenueOverview) RevenueOverview {
	return RevenueOverview{
		Gross:          round2(r.Gross),
		Collected:      round2(r.Collected),
		ConvenienceFee: round2(r.ConvenienceFee),
		GST:            round2(r.GST),
		TDS:            round2(r.TDS),
		TCS:            round2(r.TCS),
		NetCommission:  round2(r.NetCommission),
		NetPayable:     round2(r.NetPayable),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
