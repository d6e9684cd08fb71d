package salons

import (
	"context"
	"fmt"

	"salonhub/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface for salon operations
type Repository interface {
	// Salons
	Create(ctx context.Context, salon *Salon) error
	GetByID(ctx context.Context, id uuid.UUID) (*Salon, error)
	GetBySlug(ctx context.Context, slug string) (*Salon, error)
	GetAll(ctx context.Context, query SalonListQuery) ([]Salon, int64, error)
	GetFeatured(ctx context.Context, limit int) ([]Salon, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Salon, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Images
	AddImage(ctx context.Context, image *SalonImage) error
	GetImages(ctx context.Context, salonID uuid.UUID) ([]SalonImage, error)
	GetImageByID(ctx context.Context, imageID uuid.UUID) (*SalonImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	UnsetPrimaryImages(ctx context.Context, salonID uuid.UUID) error

	// Favorites
	AddFavorite(ctx context.Context, userID, salonID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, salonID uuid.UUID) (bool, error)
	IsFavorited(ctx context.Context, userID, salonID uuid.UUID) (bool, error)
	GetFavoritedSet(ctx context.Context, userID uuid.UUID, salonIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	GetFavoriteSalons(ctx context.Context, userID uuid.UUID) ([]Salon, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ============= SALONS =============

func (r *repository) Create(ctx context.Context, salon *Salon) error {
	return r.db.WithContext(ctx).Create(salon).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Salon, error) {
	var salon Salon
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("salon_images.is_primary DESC, salon_images.position ASC")
		}).
		First(&salon, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Salon, error) {
	var salon Salon
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("salon_images.is_primary DESC, salon_images.position ASC")
		}).
		First(&salon, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *repository) GetAll(ctx context.Context, query SalonListQuery) ([]Salon, int64, error) {
	var salons []Salon
	var total int64

	q := r.db.WithContext(ctx).Model(&Salon{}).Where("salons.is_active = ?", true)

	if query.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", query.Search)
		q = q.Where("salons.name ILIKE ? OR salons.description ILIKE ?", pattern, pattern)
	}

	if query.City != "" {
		q = q.Where("salons.city ILIKE ?", fmt.Sprintf("%%%s%%", query.City))
	}

	if query.Region != "" {
		q = q.Where("salons.region ILIKE ?", fmt.Sprintf("%%%s%%", query.Region))
	}

	if query.MinRating > 0 {
		q = q.Where("salons.average_rating >= ?", query.MinRating)
	}

	if query.Service != "" {
		// Subquery keeps the joined service rows from duplicating salons
		sub := r.db.Table("services").
			Select("salon_id").
			Where("name ILIKE ? AND is_active = ?", fmt.Sprintf("%%%s%%", query.Service), true)
		q = q.Where("salons.id IN (?)", sub)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := query.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	q = q.Order(fmt.Sprintf("salons.%s %s", sortBy, sortOrder))

	offset := (query.Page - 1) * query.Limit
	err := q.Offset(offset).Limit(query.Limit).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("salon_images.is_primary DESC, salon_images.position ASC")
		}).
		Find(&salons).Error
	if err != nil {
		return nil, 0, err
	}

	return salons, total, nil
}

func (r *repository) GetFeatured(ctx context.Context, limit int) ([]Salon, error) {
	var salons []Salon
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_verified = ?", true, true).
		Order("average_rating DESC, total_reviews DESC").
		Limit(limit).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("salon_images.is_primary DESC, salon_images.position ASC")
		}).
		Find(&salons).Error
	if err != nil {
		return nil, err
	}
	return salons, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Salon, error) {
	var salons []Salon
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Preload("Images").
		Find(&salons).Error
	if err != nil {
		return nil, err
	}
	return salons, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Salon{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Salon{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ============= IMAGES =============

func (r *repository) AddImage(ctx context.Context, image *SalonImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *repository) GetImages(ctx context.Context, salonID uuid.UUID) ([]SalonImage, error) {
	var images []SalonImage
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("is_primary DESC, position ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *repository) GetImageByID(ctx context.Context, imageID uuid.UUID) (*SalonImage, error) {
	var image SalonImage
	err := r.db.WithContext(ctx).First(&image, "id = ?", imageID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&SalonImage{}, "id = ?", imageID).Error
}

func (r *repository) UnsetPrimaryImages(ctx context.Context, salonID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&SalonImage{}).
		Where("salon_id = ? AND is_primary = ?", salonID, true).
		Update("is_primary", false).Error
}

// ============= FAVORITES =============

func (r *repository) AddFavorite(ctx context.Context, userID, salonID uuid.UUID) error {
	favorite := users.Favorite{
		UserID:  userID,
		SalonID: salonID,
	}
	return r.db.WithContext(ctx).Create(&favorite).Error
}

func (r *repository) RemoveFavorite(ctx context.Context, userID, salonID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND salon_id = ?", userID, salonID).
		Delete(&users.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) IsFavorited(ctx context.Context, userID, salonID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&users.Favorite{}).
		Where("user_id = ? AND salon_id = ?", userID, salonID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) GetFavoritedSet(ctx context.Context, userID uuid.UUID, salonIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	favorited := make(map[uuid.UUID]bool)
	if len(salonIDs) == 0 {
		return favorited, nil
	}

	var favorites []users.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND salon_id IN ?", userID, salonIDs).
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	for _, f := range favorites {
		favorited[f.SalonID] = true
	}
	return favorited, nil
}

func (r *repository) GetFavoriteSalons(ctx context.Context, userID uuid.UUID) ([]Salon, error) {
	var salons []Salon
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.salon_id = salons.id").
		Where("favorites.user_id = ? AND salons.is_active = ?", userID, true).
		Order("favorites.created_at DESC").
		Preload("Images").
		Find(&salons).Error
	if err != nil {
		return nil, err
	}
	return salons, nil
}
