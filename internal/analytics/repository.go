package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	GetBookingOverview(ctx context.Context, scope Scope) (BookingOverview, error)
	GetRevenueOverview(ctx context.Context, scope Scope) (RevenueOverview, error)
	GetPayoutOverview(ctx context.Context, scope Scope) (PayoutOverview, error)
	CountEventsByStatus(ctx context.Context, scope Scope) (map[string]int64, error)
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	GetTopEvents(ctx context.Context, scope Scope, limit int) ([]EventPerformance, error)
	GetCategoryPerformance(ctx context.Context) ([]CategoryPerformance, error)
	GetDailyMetrics(ctx context.Context, scope Scope, from, to string) ([]DailyMetric, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) bookings(ctx context.Context, scope Scope) *gorm.DB {
	db := r.db.WithContext(ctx).Table("bookings")
	if scope.VendorID != nil {
		db = db.Where("bookings.vendor_id = ?", *scope.VendorID)
	}
	return db
}

func (r *repository) GetBookingOverview(ctx context.Context, scope Scope) (BookingOverview, error) {
	var overview BookingOverview
	err := r.bookings(ctx, scope).Select(`
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) AS success,
		COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed,
		COALESCE(SUM(CASE WHEN status = 'success' THEN seats ELSE 0 END), 0) AS seats
	`).Scan(&overview).Error
	if err != nil {
		return overview, fmt.Errorf("failed to get booking overview: %w", err)
	}
	return overview, nil
}

func (r *repository) GetRevenueOverview(ctx context.Context, scope Scope) (RevenueOverview, error) {
	var revenue RevenueOverview
	err := r.bookings(ctx, scope).
		Where("status = ?", "success").
		Select(`
			COALESCE(SUM(settle_gross_amount), 0) AS gross,
			COALESCE(SUM(settle_amount_with_tax), 0) AS collected,
			COALESCE(SUM(settle_convenience_fee), 0) AS convenience_fee,
			COALESCE(SUM(settle_total_gst), 0) AS gst,
			COALESCE(SUM(settle_tds), 0) AS tds,
			COALESCE(SUM(settle_tcs), 0) AS tcs,
			COALESCE(SUM(settle_net_commission), 0) AS net_commission,
			COALESCE(SUM(settle_net_payable), 0) AS net_payable
		`).Scan(&revenue).Error
	if err != nil {
		return revenue, fmt.Errorf("failed to get revenue overview: %w", err)
	}
	return revenue, nil
}

func (r *repository) GetPayoutOverview(ctx context.Context, scope Scope) (PayoutOverview, error) {
	var payouts PayoutOverview
	db := r.db.WithContext(ctx).Table("payment_rollouts")
	if scope.VendorID != nil {
		db = db.Where("vendor_id = ?", *scope.VendorID)
	}
	err := db.Select("COUNT(*) AS recorded, COALESCE(SUM(amount), 0) AS paid_out").Scan(&payouts).Error
	if err != nil {
		return payouts, fmt.Errorf("failed to get payout overview: %w", err)
	}
	return payouts, nil
}

type groupCount struct {
	Bucket string
	Count  int64
}

func toMap(rows []groupCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Bucket] = row.Count
	}
	return out
}

func (r *repository) CountEventsByStatus(ctx context.Context, scope Scope) (map[string]int64, error) {
	db := r.db.WithContext(ctx).Table("events")
	if scope.VendorID != nil {
		db = db.Where("vendor_id = ?", *scope.VendorID)
	}
	var rows []groupCount
	if err := db.Select("status AS bucket, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	return toMap(rows), nil
}

func (r *repository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Table("users").
		Select("role AS bucket, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return toMap(rows), nil
}

func (r *repository) GetTopEvents(ctx context.Context, scope Scope, limit int) ([]EventPerformance, error) {
	var rows []EventPerformance
	err := r.bookings(ctx, scope).
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.status = ?", "success").
		Select(`
			bookings.event_id AS event_id,
			events.name AS name,
			COUNT(*) AS bookings,
			COALESCE(SUM(bookings.seats), 0) AS seats,
			COALESCE(SUM(bookings.settle_gross_amount), 0) AS gross
		`).
		Group("bookings.event_id, events.name").
		Order("SUM(bookings.settle_gross_amount) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top events: %w", err)
	}
	return rows, nil
}

func (r *repository) GetCategoryPerformance(ctx context.Context) ([]CategoryPerformance, error) {
	var rows []CategoryPerformance
	err := r.db.WithContext(ctx).Table("bookings").
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.status = ?", "success").
		Select(`
			events.category_slug AS slug,
			COUNT(*) AS bookings,
			COALESCE(SUM(bookings.settle_gross_amount), 0) AS gross
		`).
		Group("events.category_slug").
		Order("COUNT(*) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get category performance: %w", err)
	}
	return rows, nil
}

// GetDailyMetrics buckets successful bookings by chart date within [from, to]
func (r *repository) GetDailyMetrics(ctx context.Context, scope Scope, from, to string) ([]DailyMetric, error) {
	var rows []DailyMetric
	err := r.bookings(ctx, scope).
		Where("status = ? AND chart_date >= ? AND chart_date <= ?", "success", from, to).
		Select("chart_date AS date, COUNT(*) AS bookings, COALESCE(SUM(settle_gross_amount), 0) AS gross").
		Group("chart_date").
		Order("chart_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily metrics: %w", err)
	}
	return rows, nil
}
