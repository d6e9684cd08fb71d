package categories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category with similar name already exists")
	ErrCategoryInUse    = errors.New("category is in use")
	ErrInvalidName      = errors.New("category name must contain at least one alphanumeric character")
)

type Service interface {
	CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetAllCategories(ctx context.Context, query CategoryListQuery) (*PaginatedCategories, error)
	GetActiveCategories(ctx context.Context) ([]CategoryResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// generateSlug lowercases the name and collapses everything that is not a
// word character into single hyphens.
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	reg := regexp.MustCompile(`[^\w\s-]`)
	slug = reg.ReplaceAllString(slug, "")

	reg = regexp.MustCompile(`[\s-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

func (s *service) CreateCategory(ctx context.Context, adminID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	slug := generateSlug(name)
	if slug == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		CreatedBy:   adminID,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	response := category.ToResponse()
	return &response, nil
}

func (s *service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	response := category.ToResponse()
	return &response, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	response := category.ToResponse()
	return &response, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidName
		}

		slug := generateSlug(name)
		if slug == "" {
			return nil, ErrInvalidName
		}

		if slug != current.Slug {
			existing, err := s.repo.GetBySlug(ctx, slug)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check existing category: %w", err)
			}
			if existing != nil && existing.ID != current.ID {
				return nil, ErrCategoryExists
			}
		}

		updates["name"] = name
		updates["slug"] = slug
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	updates["updated_at"] = time.Now()
	updates["updated_by"] = adminID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}

	inUse, err := s.repo.CountServicesUsing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

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

	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = category.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	return &PaginatedCategories{
		Categories: responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetActiveCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active categories: %w", err)
	}

	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = category.ToResponse()
	}

	return responses, nil
}
