package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"playarena/internal/inventory"
)

type Repository interface {
	Create(ctx context.Context, event *Event, charts []BookingChart) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context, query EventListQuery, scope ListScope) ([]Event, int64, error)
	Update(ctx context.Context, event *Event, tiers []BookingDetailType, plan *inventory.Plan) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListCharts(ctx context.Context, eventID uuid.UUID) ([]BookingChart, error)
	GetChart(ctx context.Context, chartID uuid.UUID) (*BookingChart, error)
	ApplyInventoryPlan(ctx context.Context, eventID uuid.UUID, plan inventory.Plan) error
	SetChartEnabled(ctx context.Context, eventID, chartID uuid.UUID, enabled bool) error
}

// ListScope narrows a listing to what the caller may see
type ListScope struct {
	PublishedOnly bool
	VendorID      *uuid.UUID
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event, charts []BookingChart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// tiers are inserted through the association
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		for i := range charts {
			charts[i].EventID = event.ID
		}
		if len(charts) > 0 {
			if err := tx.CreateInBatches(charts, 200).Error; err != nil {
				return fmt.Errorf("failed to create booking charts: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Preload("Tiers").Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery, scope ListScope) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if scope.PublishedOnly {
		db = db.Where("status = ?", StatusPublished)
	} else if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if scope.VendorID != nil {
		db = db.Where("vendor_id = ?", *scope.VendorID)
	}

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if query.Category != "" {
		db = db.Where("category_slug = ?", query.Category)
	}
	if query.City != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(query.City)))
	}
	if query.Mode != "" {
		db = db.Where("mode = ?", query.Mode)
	}
	if query.IsOnline != nil {
		db = db.Where("is_online = ?", *query.IsOnline)
	}
	if query.Date != "" {
		db = db.Where("EXISTS (SELECT 1 FROM booking_charts bc WHERE bc.event_id = events.id AND bc.date = ? AND bc.is_booking_enabled = ?)", query.Date, true)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Preload("Tiers").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

// Update saves the event row and, when given, replaces its tiers and
// applies an inventory plan. Everything commits or nothing does.
func (r *repository) Update(ctx context.Context, event *Event, tiers []BookingDetailType, plan *inventory.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(event).Error; err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}

		if tiers != nil {
			if err := tx.Where("event_id = ?", event.ID).Delete(&BookingDetailType{}).Error; err != nil {
				return fmt.Errorf("failed to remove tiers: %w", err)
			}
			for i := range tiers {
				tiers[i].EventID = event.ID
			}
			if len(tiers) > 0 {
				if err := tx.Create(&tiers).Error; err != nil {
					return fmt.Errorf("failed to create tiers: %w", err)
				}
			}
		}

		if plan != nil {
			return applyPlan(tx, event.ID, *plan)
		}
		return nil
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes the event and every dependent row in one transaction.
// Payouts hang off bookings, so they go first.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			what  string
			query string
		}{
			{"payment rollouts", "DELETE FROM payment_rollouts WHERE booking_id IN (SELECT id FROM bookings WHERE event_id = ?)"},
			{"bookings", "DELETE FROM bookings WHERE event_id = ?"},
			{"reviews", "DELETE FROM reviews WHERE event_id = ?"},
			{"bookmarks", "DELETE FROM bookmarks WHERE event_id = ?"},
			{"booking charts", "DELETE FROM booking_charts WHERE event_id = ?"},
			{"tiers", "DELETE FROM booking_detail_types WHERE event_id = ?"},
		}
		for _, step := range steps {
			if err := tx.Exec(step.query, id).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.what, err)
			}
		}

		result := tx.Where("id = ?", id).Delete(&Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}

func (r *repository) ListCharts(ctx context.Context, eventID uuid.UUID) ([]BookingChart, error) {
	var charts []BookingChart
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("date ASC, slot_start ASC").
		Find(&charts).Error
	return charts, err
}

func (r *repository) GetChart(ctx context.Context, chartID uuid.UUID) (*BookingChart, error) {
	var chart BookingChart
	if err := r.db.WithContext(ctx).Where("id = ?", chartID).First(&chart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, err
	}
	return &chart, nil
}

func (r *repository) ApplyInventoryPlan(ctx context.Context, eventID uuid.UUID, plan inventory.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyPlan(tx, eventID, plan)
	})
}

// applyPlan writes matched updates, then creates, then deletes the
// unmatched charts. It must run inside a transaction.
func applyPlan(tx *gorm.DB, eventID uuid.UUID, plan inventory.Plan) error {
	for _, c := range plan.Updates {
		err := tx.Model(&BookingChart{}).
			Where("id = ? AND event_id = ?", c.ID, eventID).
			Updates(map[string]interface{}{
				"date":       c.Date,
				"slot_start": c.Slot.Start,
				"slot_end":   c.Slot.End,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update booking chart %s: %w", c.ID, err)
		}
	}

	if len(plan.Creates) > 0 {
		rows := make([]BookingChart, len(plan.Creates))
		for i, c := range plan.Creates {
			rows[i] = chartFromInventory(eventID, c)
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("failed to create booking charts: %w", err)
		}
	}

	if len(plan.Deletes) > 0 {
		ids := make([]uuid.UUID, len(plan.Deletes))
		for i, c := range plan.Deletes {
			ids[i] = c.ID
		}
		if err := tx.Where("event_id = ? AND id IN ?", eventID, ids).Delete(&BookingChart{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking charts: %w", err)
		}
	}

	return nil
}

func (r *repository) SetChartEnabled(ctx context.Context, eventID, chartID uuid.UUID, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&BookingChart{}).
		Where("id = ? AND event_id = ?", chartID, eventID).
		Update("is_booking_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChartNotFound
	}
	return nil
}
