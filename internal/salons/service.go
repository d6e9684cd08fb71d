package salons

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"salonhub/internal/shared/constants"
	"salonhub/internal/users"
	"salonhub/pkg/cache"
	"salonhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrSalonNotFound    = errors.New("salon not found")
	ErrNotSalonOwner    = errors.New("user does not own this salon")
	ErrImageNotFound    = errors.New("salon image not found")
	ErrAlreadyFavorited = errors.New("salon already in favorites")
	ErrFavoriteNotFound = errors.New("salon not in favorites")
	ErrInvalidHours     = errors.New("invalid business hours")
)

type Service interface {
	// Salons
	CreateSalon(ctx context.Context, ownerID uuid.UUID, req CreateSalonRequest) (*SalonResponse, error)
	GetSalon(ctx context.Context, salonID uuid.UUID, viewerID *uuid.UUID) (*SalonResponse, error)
	GetSalonBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*SalonResponse, error)
	GetSalons(ctx context.Context, query SalonListQuery, viewerID *uuid.UUID) (*PaginatedSalons, error)
	GetFeaturedSalons(ctx context.Context, limit int, viewerID *uuid.UUID) ([]SalonResponse, error)
	GetVendorSalons(ctx context.Context, ownerID uuid.UUID) ([]SalonResponse, error)
	UpdateSalon(ctx context.Context, salonID, actorID uuid.UUID, actorRole users.Role, req UpdateSalonRequest) (*SalonResponse, error)
	DeleteSalon(ctx context.Context, salonID, actorID uuid.UUID, actorRole users.Role) error
	VerifySalon(ctx context.Context, salonID uuid.UUID, verified bool) (*SalonResponse, error)

	// Images
	AddImage(ctx context.Context, salonID, ownerID uuid.UUID, req AddImageRequest) (*SalonImageResponse, error)
	DeleteImage(ctx context.Context, salonID, imageID, ownerID uuid.UUID) error

	// Favorites
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]SalonResponse, error)
	AddFavorite(ctx context.Context, userID, salonID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, salonID uuid.UUID) error
}

type service struct {
	repo        Repository
	redisClient *redis.Client
}

func NewService(repo Repository) Service {
	return &service{
		repo:        repo,
		redisClient: cache.Client(),
	}
}

// ============= SALONS =============

func (s *service) CreateSalon(ctx context.Context, ownerID uuid.UUID, req CreateSalonRequest) (*SalonResponse, error) {
	openingTime := req.OpeningTime
	closingTime := req.ClosingTime
	if openingTime == "" {
		openingTime = "09:00"
	}
	if closingTime == "" {
		closingTime = "18:00"
	}
	if err := validateBusinessHours(openingTime, closingTime); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	country := req.Country
	if country == "" {
		country = "Ghana"
	}

	salon := &Salon{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Region:      req.Region,
		Country:     country,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		OpeningTime: openingTime,
		ClosingTime: closingTime,
		IsActive:    true,
		IsVerified:  false,
	}

	if err := s.repo.Create(ctx, salon); err != nil {
		return nil, fmt.Errorf("failed to create salon: %w", err)
	}

	logger.GetDefault().LogSalonCreated(ctx, salon.ID.String(), ownerID.String())

	if err := InvalidateSalonCache(ctx, s.redisClient, nil); err != nil {
		log.Printf("Warning: failed to invalidate salon cache after creation: %v", err)
	}

	resp := salon.ToResponse()
	return &resp, nil
}

func (s *service) GetSalon(ctx context.Context, salonID uuid.UUID, viewerID *uuid.UUID) (*SalonResponse, error) {
	salon, err := s.getSalonCached(ctx, salonID)
	if err != nil {
		return nil, err
	}

	resp := salon.ToResponse()
	if viewerID != nil {
		favorited, err := s.repo.IsFavorited(ctx, *viewerID, salon.ID)
		if err == nil {
			resp.IsFavorited = favorited
		}
	}

	return &resp, nil
}

func (s *service) GetSalonBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*SalonResponse, error) {
	salon, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}

	resp := salon.ToResponse()
	if viewerID != nil {
		favorited, err := s.repo.IsFavorited(ctx, *viewerID, salon.ID)
		if err == nil {
			resp.IsFavorited = favorited
		}
	}

	return &resp, nil
}

func (s *service) GetSalons(ctx context.Context, query SalonListQuery, viewerID *uuid.UUID) (*PaginatedSalons, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}

	// Only the unfiltered browse path is cached. Filter combinations
	// would explode the key space for little hit-rate.
	cacheable := query.Search == "" && query.Service == "" && query.Region == "" && query.MinRating == 0

	var salons []Salon
	var total int64
	var err error

	if cacheable {
		cacheKey := constants.BuildSalonListKey(query.Page, query.Limit, query.City, "")
		var cached struct {
			Salons []Salon `json:"salons"`
			Total  int64   `json:"total"`
		}
		if cacheErr := GetCache(ctx, s.redisClient, cacheKey, &cached); cacheErr == nil {
			salons, total = cached.Salons, cached.Total
		} else {
			salons, total, err = s.repo.GetAll(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("failed to list salons: %w", err)
			}
			cached.Salons, cached.Total = salons, total
			if setErr := SetCache(ctx, s.redisClient, cacheKey, cached, constants.TTL_SALONS_LIST); setErr != nil {
				log.Printf("Warning: failed to cache salon list: %v", setErr)
			}
		}
	} else {
		salons, total, err = s.repo.GetAll(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list salons: %w", err)
		}
	}

	responses, err := s.toAnnotatedResponses(ctx, salons, viewerID)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(query.Limit)))

	return &PaginatedSalons{
		Salons:     responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetFeaturedSalons(ctx context.Context, limit int, viewerID *uuid.UUID) ([]SalonResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 20 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("%s:limit:%d", constants.CACHE_KEY_SALONS_FEATURED, limit)

	var salons []Salon
	if err := GetCache(ctx, s.redisClient, cacheKey, &salons); err != nil {
		dbSalons, err := s.repo.GetFeatured(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to get featured salons: %w", err)
		}
		salons = dbSalons

		if setErr := SetCache(ctx, s.redisClient, cacheKey, salons, constants.TTL_SALONS_FEATURED); setErr != nil {
			log.Printf("Warning: failed to cache featured salons: %v", setErr)
		}
	}

	return s.toAnnotatedResponses(ctx, salons, viewerID)
}

func (s *service) GetVendorSalons(ctx context.Context, ownerID uuid.UUID) ([]SalonResponse, error) {
	salons, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor salons: %w", err)
	}

	responses := make([]SalonResponse, len(salons))
	for i := range salons {
		responses[i] = salons[i].ToResponse()
	}
	return responses, nil
}

func (s *service) UpdateSalon(ctx context.Context, salonID, actorID uuid.UUID, actorRole users.Role, req UpdateSalonRequest) (*SalonResponse, error) {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	if salon.OwnerID != actorID && actorRole != users.RoleAdmin {
		return nil, ErrNotSalonOwner
	}

	updates := make(map[string]interface{})

	if req.Name != nil && strings.TrimSpace(*req.Name) != salon.Name {
		name := strings.TrimSpace(*req.Name)
		slug, err := s.uniqueSlug(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		updates["name"] = name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}

	opening := salon.OpeningTime
	closing := salon.ClosingTime
	if req.OpeningTime != nil {
		opening = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		closing = *req.ClosingTime
	}
	if req.OpeningTime != nil || req.ClosingTime != nil {
		if err := validateBusinessHours(opening, closing); err != nil {
			return nil, err
		}
		updates["opening_time"] = opening
		updates["closing_time"] = closing
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, salonID, updates); err != nil {
			return nil, fmt.Errorf("failed to update salon: %w", err)
		}

		if err := InvalidateSalonCache(ctx, s.redisClient, &salonID); err != nil {
			log.Printf("Warning: failed to invalidate salon cache after update: %v", err)
		}
	}

	updated, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteSalon(ctx context.Context, salonID, actorID uuid.UUID, actorRole users.Role) error {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return err
	}

	if salon.OwnerID != actorID && actorRole != users.RoleAdmin {
		return ErrNotSalonOwner
	}

	// Soft delete keeps historical bookings resolvable
	if err := s.repo.Update(ctx, salonID, map[string]interface{}{"is_active": false}); err != nil {
		return fmt.Errorf("failed to delete salon: %w", err)
	}

	if err := InvalidateSalonCache(ctx, s.redisClient, &salonID); err != nil {
		log.Printf("Warning: failed to invalidate salon cache after delete: %v", err)
	}

	return nil
}

func (s *service) VerifySalon(ctx context.Context, salonID uuid.UUID, verified bool) (*SalonResponse, error) {
	if _, err := s.getSalon(ctx, salonID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, salonID, map[string]interface{}{"is_verified": verified}); err != nil {
		return nil, fmt.Errorf("failed to verify salon: %w", err)
	}

	if err := InvalidateSalonCache(ctx, s.redisClient, &salonID); err != nil {
		log.Printf("Warning: failed to invalidate salon cache after verification: %v", err)
	}

	updated, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

// ============= IMAGES =============

func (s *service) AddImage(ctx context.Context, salonID, ownerID uuid.UUID, req AddImageRequest) (*SalonImageResponse, error) {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	if salon.OwnerID != ownerID {
		return nil, ErrNotSalonOwner
	}

	if req.IsPrimary {
		if err := s.repo.UnsetPrimaryImages(ctx, salonID); err != nil {
			return nil, fmt.Errorf("failed to unset primary images: %w", err)
		}
	}

	image := &SalonImage{
		ID:        uuid.New(),
		SalonID:   salonID,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		IsPrimary: req.IsPrimary,
		Position:  req.Position,
	}

	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to add salon image: %w", err)
	}

	if err := InvalidateSalonCache(ctx, s.redisClient, &salonID); err != nil {
		log.Printf("Warning: failed to invalidate salon cache after image add: %v", err)
	}

	resp := image.ToResponse()
	return &resp, nil
}

func (s *service) DeleteImage(ctx context.Context, salonID, imageID, ownerID uuid.UUID) error {
	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return err
	}

	if salon.OwnerID != ownerID {
		return ErrNotSalonOwner
	}

	image, err := s.repo.GetImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get salon image: %w", err)
	}

	if image.SalonID != salonID {
		return ErrImageNotFound
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("failed to delete salon image: %w", err)
	}

	if err := InvalidateSalonCache(ctx, s.redisClient, &salonID); err != nil {
		log.Printf("Warning: failed to invalidate salon cache after image delete: %v", err)
	}

	return nil
}

// ============= FAVORITES =============

func (s *service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]SalonResponse, error) {
	salons, err := s.repo.GetFavoriteSalons(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	responses := make([]SalonResponse, len(salons))
	for i := range salons {
		responses[i] = salons[i].ToResponse()
		responses[i].IsFavorited = true
	}
	return responses, nil
}

func (s *service) AddFavorite(ctx context.Context, userID, salonID uuid.UUID) error {
	if _, err := s.getSalon(ctx, salonID); err != nil {
		return err
	}

	favorited, err := s.repo.IsFavorited(ctx, userID, salonID)
	if err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}
	if favorited {
		return ErrAlreadyFavorited
	}

	if err := s.repo.AddFavorite(ctx, userID, salonID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *service) RemoveFavorite(ctx context.Context, userID, salonID uuid.UUID) error {
	removed, err := s.repo.RemoveFavorite(ctx, userID, salonID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if !removed {
		return ErrFavoriteNotFound
	}
	return nil
}

// ============= HELPERS =============

func (s *service) getSalon(ctx context.Context, salonID uuid.UUID) (*Salon, error) {
	salon, err := s.repo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return salon, nil
}

func (s *service) getSalonCached(ctx context.Context, salonID uuid.UUID) (*Salon, error) {
	cacheKey := constants.BuildSalonDetailKey(salonID.String())

	var cached Salon
	if err := GetCache(ctx, s.redisClient, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	salon, err := s.getSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	if err := SetCache(ctx, s.redisClient, cacheKey, salon, constants.TTL_SALON_DETAIL); err != nil {
		log.Printf("Warning: failed to cache salon detail: %v", err)
	}

	return salon, nil
}

func (s *service) toAnnotatedResponses(ctx context.Context, salons []Salon, viewerID *uuid.UUID) ([]SalonResponse, error) {
	responses := make([]SalonResponse, len(salons))

	var favorited map[uuid.UUID]bool
	if viewerID != nil && len(salons) > 0 {
		ids := make([]uuid.UUID, len(salons))
		for i := range salons {
			ids[i] = salons[i].ID
		}
		set, err := s.repo.GetFavoritedSet(ctx, *viewerID, ids)
		if err == nil {
			favorited = set
		}
	}

	for i := range salons {
		responses[i] = salons[i].ToResponse()
		if favorited != nil {
			responses[i].IsFavorited = favorited[salons[i].ID]
		}
	}
	return responses, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := generateSlug(name)
	if base == "" {
		base = "salon"
	}

	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	// Collision: disambiguate with a short random suffix
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return base + "-" + suffix, nil
}

func validateBusinessHours(opening, closing string) error {
	openT, err := time.Parse("15:04", opening)
	if err != nil {
		return fmt.Errorf("%w: opening time must be HH:MM", ErrInvalidHours)
	}
	closeT, err := time.Parse("15:04", closing)
	if err != nil {
		return fmt.Errorf("%w: closing time must be HH:MM", ErrInvalidHours)
	}
	if !closeT.After(openT) {
		return fmt.Errorf("%w: closing time must be after opening time", ErrInvalidHours)
	}
	return nil
}
