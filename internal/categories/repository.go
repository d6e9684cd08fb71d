package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context, query CategoryListQuery) ([]Category, int64, error)
	GetActive(ctx context.Context) ([]Category, error)
	CountServicesUsing(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Category, error) {
	var category Category

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&category).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Category{}).Error
}

func (r *repository) GetAll(ctx context.Context, query CategoryListQuery) ([]Category, int64, error) {
	var categories []Category
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Category{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	sortOrder := query.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	db = db.Order(sortBy + " " + sortOrder)

	offset := (query.Page - 1) * query.Limit
	if err := db.Offset(offset).Limit(query.Limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, totalCount, nil
}

func (r *repository) GetActive(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&categories).Error
	return categories, err
}

// CountServicesUsing reports how many catalog services reference the category.
func (r *repository) CountServicesUsing(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("services").
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
