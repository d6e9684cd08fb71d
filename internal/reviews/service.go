package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"salonhub/internal/salons"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyReviewed = errors.New("salon already reviewed by this customer")

type Service interface {
	CreateReview(ctx context.Context, salonID, customerID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error)
	GetSalonReviews(ctx context.Context, salonID uuid.UUID, query ReviewListQuery) (*PaginatedReviews, error)
}

type service struct {
	repo      Repository
	salonRepo salons.Repository
}

func NewService(repo Repository, salonRepo salons.Repository) Service {
	return &service{
		repo:      repo,
		salonRepo: salonRepo,
	}
}

func (s *service) CreateReview(ctx context.Context, salonID, customerID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.salonRepo.GetByID(ctx, salonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}

	reviewed, err := s.repo.HasReviewed(ctx, salonID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	review := &Review{
		ID:         uuid.New(),
		SalonID:    salonID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: true,
	}

	if err := s.repo.CreateWithAggregates(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return &ReviewResponse{
		ID:         review.ID.String(),
		SalonID:    review.SalonID.String(),
		CustomerID: review.CustomerID.String(),
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}, nil
}

func (s *service) GetSalonReviews(ctx context.Context, salonID uuid.UUID, query ReviewListQuery) (*PaginatedReviews, error) {
	if _, err := s.salonRepo.GetByID(ctx, salonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	rows, total, err := s.repo.GetBySalon(ctx, salonID, query.Page, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	responses := make([]ReviewResponse, len(rows))
	for i, row := range rows {
		responses[i] = ReviewResponse{
			ID:           row.ID.String(),
			SalonID:      row.SalonID.String(),
			CustomerID:   row.CustomerID.String(),
			CustomerName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			Rating:       row.Rating,
			Comment:      row.Comment,
			CreatedAt:    row.CreatedAt,
		}
	}

	return &PaginatedReviews{
		Reviews:    responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}, nil
}
