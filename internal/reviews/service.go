package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"playarena/pkg/logger"
)

var (
	ErrNotEligible     = errors.New("only users with a successful booking can review this event")
	ErrAlreadyReviewed = errors.New("you have already reviewed this event")
	ErrForbidden       = errors.New("review belongs to another user")
)

// BookingChecker answers whether a user attended an event
type BookingChecker interface {
	HasSuccessfulBooking(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

type Service interface {
	CreateReview(ctx context.Context, userID, eventID uuid.UUID, req ReviewRequest) (*ReviewResponse, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req ReviewRequest) (*ReviewResponse, error)
	DeleteReview(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error
	ListEventReviews(ctx context.Context, eventID uuid.UUID, query ReviewListQuery) (*PaginatedReviews, error)
}

type service struct {
	repo     Repository
	bookings BookingChecker
}

func NewService(repo Repository, bookings BookingChecker) Service {
	return &service{repo: repo, bookings: bookings}
}

func (s *service) CreateReview(ctx context.Context, userID, eventID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	attended, err := s.bookings.HasSuccessfulBooking(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookings: %w", err)
	}
	if !attended {
		return nil, ErrNotEligible
	}

	if _, err := s.repo.GetByUserAndEvent(ctx, userID, eventID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	review := &Review{
		EventID: eventID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "Review created", map[string]interface{}{
		"review_id": review.ID.String(),
		"event_id":  eventID.String(),
		"rating":    review.Rating,
	})

	resp := review.ToResponse()
	return &resp, nil
}

func (s *service) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}

	review.Rating = req.Rating
	review.Comment = strings.TrimSpace(req.Comment)
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	resp := review.ToResponse()
	return &resp, nil
}

func (s *service) DeleteReview(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, reviewID)
}

func (s *service) ListEventReviews(ctx context.Context, eventID uuid.UUID, query ReviewListQuery) (*PaginatedReviews, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	summary, err := s.repo.Summarize(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	summary.Average = math.Round(summary.Average*10) / 10

	reviews, err := s.repo.ListByEvent(ctx, eventID, query.Page, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].ToResponse())
	}
	return &PaginatedReviews{
		Reviews:    out,
		Summary:    summary,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(summary.Count) / float64(query.Limit))),
	}, nil
}
