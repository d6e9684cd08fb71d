package services

import (
	"context"

	"salonhub/internal/categories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetBySalon(ctx context.Context, salonID uuid.UUID, query ServiceListQuery) ([]Service, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, service *Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) GetBySalon(ctx context.Context, salonID uuid.UUID, query ServiceListQuery) ([]Service, error) {
	q := r.db.WithContext(ctx).Where("salon_id = ?", salonID)

	if !query.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	if query.CategoryID != "" {
		if categoryID, err := uuid.Parse(query.CategoryID); err == nil {
			q = q.Where("category_id = ?", categoryID)
		}
	}

	var services []Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Service{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&categories.Category{}).
		Where("id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
