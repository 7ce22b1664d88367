package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"playarena/internal/inventory"
	"playarena/internal/schedule"
	"playarena/internal/shared/constants"
	"playarena/pkg/cache"
	"playarena/pkg/logger"
)

const DefaultCurrency = "INR"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrChartNotFound   = errors.New("booking chart not found")
	ErrForbidden       = errors.New("only the event owner or an admin can do this")
	ErrInvalidCategory = errors.New("category does not exist or is inactive")
	ErrInvalidTier     = errors.New("invalid ticket tier")
	ErrNoTiers         = errors.New("an event needs at least one ticket tier")
)

// Actor is the authenticated caller of a mutating operation
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func (a Actor) owns(e *Event) bool {
	return a.IsAdmin || (a.UserID != uuid.Nil && a.UserID == e.VendorID)
}

// CategoryChecker validates category slugs without importing categories
type CategoryChecker interface {
	IsActiveSlug(ctx context.Context, slug string) (bool, error)
}

// CacheTTL configures how long event reads stay cached
type CacheTTL struct {
	List   time.Duration
	Detail time.Duration
	Charts time.Duration
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetCategoryChecker(checker CategoryChecker)

	CreateEvent(ctx context.Context, vendorID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID, viewer Actor) (*EventResponse, error)
	ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	ListVendorEvents(ctx context.Context, vendorID uuid.UUID, query EventListQuery) (*PaginatedEvents, error)
	ListAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, actor Actor, req UpdateEventRequest) (*UpdateEventResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error
	DeleteEvent(ctx context.Context, id uuid.UUID, actor Actor) error

	ListCharts(ctx context.Context, eventID uuid.UUID, viewer Actor) ([]ChartResponse, error)
	ToggleChart(ctx context.Context, eventID, chartID uuid.UUID, actor Actor, enabled bool) error

	// InvalidateCharts drops cached availability after seats change
	InvalidateCharts(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	categories   CategoryChecker
	ttl          CacheTTL
}

func NewService(repo Repository, ttl CacheTTL) Service {
	if ttl.List <= 0 {
		ttl.List = constants.TTL_EVENT_LIST
	}
	if ttl.Detail <= 0 {
		ttl.Detail = constants.TTL_EVENT_DETAIL
	}
	if ttl.Charts <= 0 {
		ttl.Charts = constants.TTL_EVENT_CHARTS
	}
	return &service{repo: repo, ttl: ttl}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetCategoryChecker(checker CategoryChecker) {
	s.categories = checker
}

func (s *service) CreateEvent(ctx context.Context, vendorID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	cfg := req.Schedule.Config()
	entries, err := schedule.Generate(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategorySlug); err != nil {
		return nil, err
	}

	tiers, err := buildTiers(req.Tiers)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}

	event := &Event{
		VendorID:            vendorID,
		Name:                strings.TrimSpace(req.Name),
		Description:         strings.TrimSpace(req.Description),
		CategorySlug:        req.CategorySlug,
		City:                strings.TrimSpace(req.City),
		Address:             strings.TrimSpace(req.Address),
		ImageURL:            req.ImageURL,
		Status:              StatusPending,
		MaximumParticipants: req.MaximumParticipants,
		IsTeamEvent:         req.IsTeamEvent,
		TeamSize:            req.TeamSize,
		IsOnline:            req.IsOnline,
		IsHomeService:       req.IsHomeService,
		IsPhysical:          req.IsPhysical,
		Tiers:               tiers,
	}
	event.SetSchedule(cfg.Normalize())

	plan := inventory.Merge(entries, nil)
	charts := make([]BookingChart, len(plan.Creates))
	for i, c := range plan.Creates {
		charts[i] = chartFromInventory(uuid.Nil, c)
	}

	if err := s.repo.Create(ctx, event, charts); err != nil {
		return nil, err
	}

	logger.GetDefault().LogEventCreated(ctx, event.ID.String(), vendorID.String(), len(charts))
	s.invalidateLists(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID, viewer Actor) (*EventResponse, error) {
	var resp EventResponse
	fetch := func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return event.ToResponse(), nil
	}

	if err := s.cached(ctx, constants.BuildEventDetailKey(id.String()), s.ttl.Detail, fetch, &resp); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if resp.Status != StatusPublished && !viewer.IsAdmin && resp.VendorID != viewer.UserID.String() {
		return nil, ErrEventNotFound
	}
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	normalizePage(&query)
	query.Status = ""

	var result PaginatedEvents
	fetch := func() (interface{}, error) {
		return s.list(ctx, query, ListScope{PublishedOnly: true})
	}
	if err := s.cached(ctx, constants.BuildEventListKey(query.cacheKey()), s.ttl.List, fetch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListVendorEvents(ctx context.Context, vendorID uuid.UUID, query EventListQuery) (*PaginatedEvents, error) {
	normalizePage(&query)
	result, err := s.list(ctx, query, ListScope{VendorID: &vendorID})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	normalizePage(&query)
	result, err := s.list(ctx, query, ListScope{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) list(ctx context.Context, query EventListQuery, scope ListScope) (PaginatedEvents, error) {
	events, total, err := s.repo.GetAll(ctx, query, scope)
	if err != nil {
		return PaginatedEvents{}, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = events[i].ToResponse()
	}
	return PaginatedEvents{
		Events:     responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}

// UpdateEvent applies the edit and reconciles inventory only when the
// schedule would produce different charts.
func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, actor Actor, req UpdateEventRequest) (*UpdateEventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(event) {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		event.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategorySlug != nil && *req.CategorySlug != event.CategorySlug {
		if err := s.checkCategory(ctx, *req.CategorySlug); err != nil {
			return nil, err
		}
		event.CategorySlug = *req.CategorySlug
	}
	if req.City != nil {
		event.City = strings.TrimSpace(*req.City)
	}
	if req.Address != nil {
		event.Address = strings.TrimSpace(*req.Address)
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}
	if req.MaximumParticipants != nil {
		event.MaximumParticipants = *req.MaximumParticipants
	}
	if req.IsTeamEvent != nil {
		event.IsTeamEvent = *req.IsTeamEvent
	}
	if req.TeamSize != nil {
		event.TeamSize = *req.TeamSize
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.IsHomeService != nil {
		event.IsHomeService = *req.IsHomeService
	}
	if req.IsPhysical != nil {
		event.IsPhysical = *req.IsPhysical
	}

	var tiers []BookingDetailType
	if req.Tiers != nil {
		if tiers, err = buildTiers(req.Tiers); err != nil {
			return nil, err
		}
		if len(tiers) == 0 {
			return nil, ErrNoTiers
		}
	}

	var plan *inventory.Plan
	if req.Schedule != nil {
		cfg := req.Schedule.Config()
		plan, err = s.reconcilePlan(ctx, event.ID, cfg)
		if err != nil {
			return nil, err
		}
		event.SetSchedule(cfg.Normalize())
	}

	if err := s.repo.Update(ctx, event, tiers, plan); err != nil {
		return nil, err
	}

	summary := ReconcileResponse{}
	if plan != nil {
		summary = ReconcileResponse{
			Reconciled: true,
			Created:    len(plan.Creates),
			Updated:    len(plan.Updates),
			Deleted:    len(plan.Deletes),
		}
		logger.GetDefault().LogInventoryReconciled(ctx, event.ID.String(), summary.Created, summary.Updated, summary.Deleted)
	}

	s.invalidateEvent(ctx, event.ID)

	updated, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return &UpdateEventResponse{Event: updated.ToResponse(), Inventory: summary}, nil
}

// reconcilePlan returns nil when the persisted charts already match cfg
func (s *service) reconcilePlan(ctx context.Context, eventID uuid.UUID, cfg schedule.Config) (*inventory.Plan, error) {
	rows, err := s.repo.ListCharts(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking charts: %w", err)
	}
	persisted := make([]inventory.Chart, len(rows))
	for i := range rows {
		persisted[i] = rows[i].ToInventory()
	}

	changed, err := inventory.NeedsReconcile(persisted, cfg)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	generated, err := schedule.Generate(cfg)
	if err != nil {
		return nil, err
	}
	plan := inventory.Merge(generated, persisted)
	if plan.IsNoop() {
		return nil, nil
	}
	return &plan, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid event status %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateEvent(ctx, id)
	return nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID, actor Actor) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(event) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateEvent(ctx, id)
	return nil
}

func (s *service) ListCharts(ctx context.Context, eventID uuid.UUID, viewer Actor) ([]ChartResponse, error) {
	if _, err := s.GetEvent(ctx, eventID, viewer); err != nil {
		return nil, err
	}

	var charts []ChartResponse
	fetch := func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rows, err := s.repo.ListCharts(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load booking charts: %w", err)
		}
		out := make([]ChartResponse, len(rows))
		for i := range rows {
			out[i] = rows[i].ToResponse(event)
		}
		return out, nil
	}

	if err := s.cached(ctx, constants.BuildEventChartsKey(eventID.String()), s.ttl.Charts, fetch, &charts); err != nil {
		return nil, err
	}
	return charts, nil
}

func (s *service) ToggleChart(ctx context.Context, eventID, chartID uuid.UUID, actor Actor, enabled bool) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !actor.owns(event) {
		return ErrForbidden
	}

	if err := s.repo.SetChartEnabled(ctx, eventID, chartID, enabled); err != nil {
		return err
	}
	s.InvalidateCharts(ctx, eventID)
	return nil
}

func (s *service) InvalidateCharts(ctx context.Context, eventID uuid.UUID) {
	s.deleteCache(ctx, constants.BuildEventChartsKey(eventID.String()))
}

func (s *service) checkCategory(ctx context.Context, slug string) error {
	if slug == "" || s.categories == nil {
		return nil
	}
	ok, err := s.categories.IsActiveSlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return ErrInvalidCategory
	}
	return nil
}

func buildTiers(reqs []TierRequest) ([]BookingDetailType, error) {
	tiers := make([]BookingDetailType, 0, len(reqs))
	for _, r := range reqs {
		if !r.Type.IsValid() || r.Amount < 0 {
			return nil, ErrInvalidTier
		}
		tier := BookingDetailType{
			Type:           r.Type,
			Name:           strings.TrimSpace(r.Name),
			Amount:         r.Amount,
			Currency:       strings.ToUpper(r.Currency),
			Members:        r.Members,
			DurationMonths: r.DurationMonths,
		}
		if tier.Currency == "" {
			tier.Currency = DefaultCurrency
		}
		switch r.Type {
		case TierGroup:
			if r.Members < 1 {
				return nil, fmt.Errorf("%w: group tiers need members", ErrInvalidTier)
			}
		case TierSubscription:
			if r.DurationMonths < 1 {
				return nil, fmt.Errorf("%w: subscription tiers need a duration", ErrInvalidTier)
			}
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func normalizePage(q *EventListQuery) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
}

// Cache helper methods

func (s *service) cached(ctx context.Context, key string, ttl time.Duration, fetch func() (interface{}, error), dest interface{}) error {
	if s.cacheService == nil {
		data, err := fetch()
		if err != nil {
			return err
		}
		return assign(data, dest)
	}
	return s.cacheService.GetOrSet(ctx, key, ttl, fetch, dest)
}

func (s *service) deleteCache(ctx context.Context, keys ...string) {
	if s.cacheService == nil {
		return
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			logger.GetDefault().WarnContext(ctx, "failed to delete cache key", "key", key, "error", err)
		}
	}
}

func (s *service) invalidateLists(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_LIST); err != nil {
		logger.GetDefault().WarnContext(ctx, "failed to invalidate event lists", "error", err)
	}
}

func (s *service) invalidateEvent(ctx context.Context, id uuid.UUID) {
	s.deleteCache(ctx, constants.BuildEventDetailKey(id.String()), constants.BuildEventChartsKey(id.String()))
	s.invalidateLists(ctx)
}

// assign copies a fetched value into dest when no cache sits in between
func assign(data interface{}, dest interface{}) error {
	switch d := dest.(type) {
	case *EventResponse:
		*d = data.(EventResponse)
	case *PaginatedEvents:
		*d = data.(PaginatedEvents)
	case *[]ChartResponse:
		*d = data.([]ChartResponse)
	default:
		return fmt.Errorf("unsupported cache destination %T", dest)
	}
	return nil
}
