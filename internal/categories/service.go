package categories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"playarena/internal/shared/constants"
	"playarena/pkg/cache"
	"playarena/pkg/logger"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("a category with similar name already exists")
	ErrInvalidName      = errors.New("category name must contain at least one alphanumeric character")
	ErrCategoryInUse    = errors.New("category is used by events, deactivate it instead")
)

type Service interface {
	CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetAllCategories(ctx context.Context, query CategoryListQuery) (*PaginatedCategories, error)
	GetActiveCategories(ctx context.Context) ([]CategoryResponse, error)

	// IsActiveSlug is used by events to validate the category of an event
	IsActiveSlug(ctx context.Context, slug string) (bool, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates the category service. cacheService may be nil.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := GenerateSlug(name)
	if slug == "" {
		return nil, ErrInvalidName
	}

	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	category := &Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		IconURL:     strings.TrimSpace(req.IconURL),
		IsActive:    true,
		CreatedBy:   adminID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate(ctx)

	resp := category.ToResponse()
	return &resp, nil
}

func (s *service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := category.ToResponse()
	return &resp, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	var resp CategoryResponse
	fetch := func() (interface{}, error) {
		category, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return category.ToResponse(), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		resp = data.(CategoryResponse)
		return &resp, nil
	}

	err := s.cache.GetOrSet(ctx, constants.BuildCategoryBySlugKey(slug), constants.TTL_CATEGORIES_ACTIVE, fetch, &resp)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &resp, nil
}

func (s *service) UpdateCategory(ctx context.Context, id, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		slug := GenerateSlug(name)
		if slug == "" {
			return nil, ErrInvalidName
		}
		if slug != current.Slug {
			// events reference categories by slug, so renames are only allowed while unused
			inUse, err := s.repo.CountEvents(ctx, current.Slug)
			if err != nil {
				return nil, fmt.Errorf("failed to check category usage: %w", err)
			}
			if inUse > 0 {
				return nil, ErrCategoryInUse
			}
			if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing.ID != current.ID {
				return nil, ErrCategoryExists
			} else if err != nil && !errors.Is(err, ErrCategoryNotFound) {
				return nil, fmt.Errorf("failed to check existing category: %w", err)
			}
		}
		updates["name"] = name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IconURL != nil {
		updates["icon_url"] = strings.TrimSpace(*req.IconURL)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	updates["updated_by"] = adminID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate(ctx)

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountEvents(ctx, category.Slug)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) GetAllCategories(ctx context.Context, query CategoryListQuery) (*PaginatedCategories, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	categories, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return &PaginatedCategories{
		Categories: toResponses(categories),
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) GetActiveCategories(ctx context.Context) ([]CategoryResponse, error) {
	fetch := func() (interface{}, error) {
		categories, err := s.repo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get active categories: %w", err)
		}
		return toResponses(categories), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]CategoryResponse), nil
	}

	var responses []CategoryResponse
	if err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_CATEGORIES_ACTIVE, constants.TTL_CATEGORIES_ACTIVE, fetch, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *service) IsActiveSlug(ctx context.Context, slug string) (bool, error) {
	category, err := s.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return false, nil
		}
		return false, err
	}
	return category.IsActive, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CATEGORIES_ALL); err != nil {
		logger.GetDefault().WarnContext(ctx, "failed to invalidate category cache", "error", err)
	}
}

func toResponses(categories []Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = categories[i].ToResponse()
	}
	return responses
}
