package analytics

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"salonhub/internal/shared/constants"
	"salonhub/pkg/cache"
)

type Service interface {
	GetVendorDashboard(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error)
	GetVendorRevenue(ctx context.Context, vendorID uuid.UUID, months int) (*VendorRevenue, error)
	GetAdminOverview(ctx context.Context) (*AdminOverview, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	currency     string
}

// NewService creates a new analytics service instance. cacheService may
// be nil; every aggregate then hits Postgres directly.
func NewService(repo Repository, cacheService cache.Service, currency string) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		currency:     currency,
	}
}

func (s *service) GetVendorDashboard(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error) {
	cacheKey := constants.BuildVendorDashboardKey(vendorID.String())

	if s.cacheService != nil {
		var cached VendorDashboard
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dashboard, err := s.repo.GetVendorDashboard(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor dashboard: %w", err)
	}
	dashboard.Currency = s.currency

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_VENDOR); err != nil {
			log.Printf("Warning: failed to cache vendor dashboard: %v", err)
		}
	}

	return dashboard, nil
}

func (s *service) GetVendorRevenue(ctx context.Context, vendorID uuid.UUID, months int) (*VendorRevenue, error) {
	if months <= 0 || months > 24 {
		months = 6
	}

	cacheKey := constants.BuildVendorRevenueKey(vendorID.String(), months)

	if s.cacheService != nil {
		var cached VendorRevenue
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	revenue, err := s.repo.GetVendorRevenue(ctx, vendorID, months)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor revenue: %w", err)
	}
	revenue.Currency = s.currency

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, revenue, constants.TTL_ANALYTICS_VENDOR); err != nil {
			log.Printf("Warning: failed to cache vendor revenue: %v", err)
		}
	}

	return revenue, nil
}

func (s *service) GetAdminOverview(ctx context.Context) (*AdminOverview, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_ADMIN_OVERVIEW

	if s.cacheService != nil {
		var cached AdminOverview
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetAdminOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin overview: %w", err)
	}
	overview.Currency = s.currency

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, overview, constants.TTL_ANALYTICS_ADMIN); err != nil {
			log.Printf("Warning: failed to cache admin overview: %v", err)
		}
	}

	return overview, nil
}
