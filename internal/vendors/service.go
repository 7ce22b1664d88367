package vendors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"playarena/internal/shared/constants"
	"playarena/pkg/cache"
	"playarena/pkg/logger"
)

var (
	ErrAlreadyApplied = errors.New("a vendor application is already pending review")
	ErrAlreadyVendor  = errors.New("user is already an approved vendor")
	ErrGSTINMismatch  = errors.New("gstin does not contain the given pan")
)

type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*VendorResponse, error)
	GetMyApplication(ctx context.Context, userID uuid.UUID) (*VendorResponse, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*VendorResponse, error)
	ListVendors(ctx context.Context, query VendorListQuery) (*PaginatedVendors, error)
	Approve(ctx context.Context, adminID, id uuid.UUID) (*VendorResponse, error)
	Reject(ctx context.Context, adminID, id uuid.UUID, reason string) (*VendorResponse, error)

	// IsGSTRegistered is false for users without an application
	IsGSTRegistered(ctx context.Context, vendorUserID uuid.UUID) (bool, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	now   func() time.Time
}

// NewService creates the vendor service. cacheService may be nil.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService, now: time.Now}
}

func (s *service) Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*VendorResponse, error) {
	vendor := &Vendor{
		UserID:            userID,
		BusinessName:      strings.TrimSpace(req.BusinessName),
		GSTIN:             strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		PAN:               strings.ToUpper(strings.TrimSpace(req.PAN)),
		BankAccountHolder: strings.TrimSpace(req.BankAccountHolder),
		BankAccountNumber: strings.TrimSpace(req.BankAccountNumber),
		IFSC:              strings.ToUpper(strings.TrimSpace(req.IFSC)),
		Status:            StatusPending,
	}
	if vendor.GSTIN != "" && panOfGSTIN(vendor.GSTIN) != vendor.PAN {
		return nil, ErrGSTINMismatch
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, ErrVendorNotFound):
		if err := s.repo.Create(ctx, vendor); err != nil {
			return nil, fmt.Errorf("failed to create vendor application: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	case existing.Status == StatusPending:
		return nil, ErrAlreadyApplied
	case existing.Status == StatusApproved:
		return nil, ErrAlreadyVendor
	default:
		vendor.ID = existing.ID
		if err := s.repo.Resubmit(ctx, vendor); err != nil {
			return nil, fmt.Errorf("failed to resubmit vendor application: %w", err)
		}
	}

	s.invalidate(ctx, userID)
	logger.GetDefault().InfoWithContext(ctx, "Vendor application submitted", map[string]interface{}{
		"vendor_id": vendor.ID.String(),
		"user_id":   userID.String(),
	})

	return s.GetMyApplication(ctx, userID)
}

func (s *service) GetMyApplication(ctx context.Context, userID uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := vendor.ToResponse()
	return &resp, nil
}

func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := vendor.ToResponse()
	return &resp, nil
}

func (s *service) ListVendors(ctx context.Context, query VendorListQuery) (*PaginatedVendors, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	vendors, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	out := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		out = append(out, vendors[i].ToResponse())
	}
	return &PaginatedVendors{
		Vendors:    out,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}

func (s *service) Approve(ctx context.Context, adminID, id uuid.UUID) (*VendorResponse, error) {
	if err := s.repo.Approve(ctx, id, adminID, s.now()); err != nil {
		return nil, err
	}
	return s.reviewed(ctx, adminID, id)
}

func (s *service) Reject(ctx context.Context, adminID, id uuid.UUID, reason string) (*VendorResponse, error) {
	if err := s.repo.Reject(ctx, id, adminID, strings.TrimSpace(reason), s.now()); err != nil {
		return nil, err
	}
	return s.reviewed(ctx, adminID, id)
}

func (s *service) reviewed(ctx context.Context, adminID, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, vendor.UserID)
	logger.GetDefault().LogVendorReviewed(ctx, id.String(), adminID.String(), string(vendor.Status))

	resp := vendor.ToResponse()
	return &resp, nil
}

func (s *service) IsGSTRegistered(ctx context.Context, vendorUserID uuid.UUID) (bool, error) {
	lookup := func() (interface{}, error) {
		vendor, err := s.repo.GetByUserID(ctx, vendorUserID)
		if errors.Is(err, ErrVendorNotFound) {
			return false, nil
		}
		if err != nil {
			return nil, err
		}
		return vendor.IsGSTRegistered(), nil
	}

	if s.cache == nil {
		registered, err := lookup()
		if err != nil {
			return false, err
		}
		return registered.(bool), nil
	}

	var registered bool
	err := s.cache.GetOrSet(ctx, constants.BuildVendorGSTKey(vendorUserID.String()), constants.TTL_VENDOR_GST, lookup, &registered)
	if err != nil {
		return false, err
	}
	return registered, nil
}

func (s *service) invalidate(ctx context.Context, vendorUserID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildVendorGSTKey(vendorUserID.String())); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to invalidate vendor cache", err, map[string]interface{}{
			"user_id": vendorUserID.String(),
		})
	}
}
