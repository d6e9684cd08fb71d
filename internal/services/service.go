package services

import (
	"context"
	"errors"
	"fmt"

	"salonhub/internal/categories"
	"salonhub/internal/salons"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

// CatalogService manages the live service catalog per salon. The name
// avoids colliding with the Service entity this package is about.
type CatalogService interface {
	GetSalonServices(ctx context.Context, salonID uuid.UUID, query ServiceListQuery) ([]ServiceResponse, error)
	GetService(ctx context.Context, serviceID uuid.UUID) (*ServiceResponse, error)
	CreateService(ctx context.Context, salonID, ownerID uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID, ownerID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error)
	DeleteService(ctx context.Context, serviceID, ownerID uuid.UUID) error
}

type catalogService struct {
	repo      Repository
	salonRepo salons.Repository
}

func NewService(repo Repository, salonRepo salons.Repository) CatalogService {
	return &catalogService{
		repo:      repo,
		salonRepo: salonRepo,
	}
}

func (s *catalogService) GetSalonServices(ctx context.Context, salonID uuid.UUID, query ServiceListQuery) ([]ServiceResponse, error) {
	if _, err := s.getSalon(ctx, salonID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetBySalon(ctx, salonID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	responses := make([]ServiceResponse, len(items))
	for i := range items {
		responses[i] = items[i].ToResponse()
	}
	return responses, nil
}

func (s *catalogService) GetService(ctx context.Context, serviceID uuid.UUID) (*ServiceResponse, error) {
	service, err := s.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	resp := service.ToResponse()
	return &resp, nil
}

func (s *catalogService) CreateService(ctx context.Context, salonID, ownerID uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error) {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	if salon.OwnerID != ownerID {
		return nil, salons.ErrNotSalonOwner
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		parsed, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, categories.ErrCategoryNotFound
		}
		exists, err := s.repo.CategoryExists(ctx, parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, categories.ErrCategoryNotFound
		}
		categoryID = &parsed
	}

	service := &Service{
		ID:              uuid.New(),
		SalonID:         salonID,
		CategoryID:      categoryID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Currency:        "GHS",
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	resp := service.ToResponse()
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, serviceID, ownerID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	service, err := s.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, service.SalonID, ownerID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			parsed, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return nil, categories.ErrCategoryNotFound
			}
			exists, err := s.repo.CategoryExists(ctx, parsed)
			if err != nil {
				return nil, fmt.Errorf("failed to check category: %w", err)
			}
			if !exists {
				return nil, categories.ErrCategoryNotFound
			}
			updates["category_id"] = parsed
		}
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, serviceID, updates); err != nil {
			return nil, fmt.Errorf("failed to update service: %w", err)
		}
	}

	updated, err := s.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *catalogService) DeleteService(ctx context.Context, serviceID, ownerID uuid.UUID) error {
	service, err := s.getService(ctx, serviceID)
	if err != nil {
		return err
	}

	if err := s.requireOwner(ctx, service.SalonID, ownerID); err != nil {
		return err
	}

	// Soft delete: booking item snapshots keep their own copies, but
	// the row stays resolvable for history views
	if err := s.repo.Update(ctx, serviceID, map[string]interface{}{"is_active": false}); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

func (s *catalogService) getService(ctx context.Context, serviceID uuid.UUID) (*Service, error) {
	service, err := s.repo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

func (s *catalogService) getSalon(ctx context.Context, salonID uuid.UUID) (*salons.Salon, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return salon, nil
}

func (s *catalogService) requireOwner(ctx context.Context, salonID, ownerID uuid.UUID) error {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return err
	}
	if salon.OwnerID != ownerID {
		return salons.ErrNotSalonOwner
	}
	return nil
}
