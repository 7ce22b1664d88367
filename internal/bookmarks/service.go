package bookmarks

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"playarena/internal/events"
)

// EventLookup is satisfied by events.Repository
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type ToggleResponse struct {
	EventID    uuid.UUID `json:"event_id"`
	Bookmarked bool      `json:"bookmarked"`
}

type PaginatedBookmarks struct {
	Bookmarks  []BookmarkedEvent `json:"bookmarks"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type Service interface {
	Toggle(ctx context.Context, userID, eventID uuid.UUID) (*ToggleResponse, error)
	Status(ctx context.Context, userID, eventID uuid.UUID) (*ToggleResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedBookmarks, error)
}

type service struct {
	repo   Repository
	events EventLookup
}

func NewService(repo Repository, events EventLookup) Service {
	return &service{repo: repo, events: events}
}

// Toggle returns events.ErrEventNotFound for unknown events
func (s *service) Toggle(ctx context.Context, userID, eventID uuid.UUID) (*ToggleResponse, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	bookmarked, err := s.repo.Toggle(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	return &ToggleResponse{EventID: eventID, Bookmarked: bookmarked}, nil
}

func (s *service) Status(ctx context.Context, userID, eventID uuid.UUID) (*ToggleResponse, error) {
	bookmarked, err := s.repo.Exists(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmark: %w", err)
	}
	return &ToggleResponse{EventID: eventID, Bookmarked: bookmarked}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedBookmarks, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if items == nil {
		items = []BookmarkedEvent{}
	}
	return &PaginatedBookmarks{
		Bookmarks:  items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
