package reviews

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithAggregates inserts the review and recomputes the salon
	// rating stats in one transaction, so readers never see a review
	// counted without its rating reflected.
	CreateWithAggregates(ctx context.Context, review *Review) error
	GetBySalon(ctx context.Context, salonID uuid.UUID, page, limit int) ([]ReviewRow, int64, error)
	HasReviewed(ctx context.Context, salonID, customerID uuid.UUID) (bool, error)
}

// ReviewRow carries a review joined with its author's name
type ReviewRow struct {
	ID         uuid.UUID `gorm:"column:id"`
	SalonID    uuid.UUID `gorm:"column:salon_id"`
	CustomerID uuid.UUID `gorm:"column:customer_id"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithAggregates(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			AvgRating    *float64 `gorm:"column:avg_rating"`
			TotalReviews int64    `gorm:"column:total_reviews"`
		}
		err := tx.Table("reviews").
			Select("AVG(rating) AS avg_rating, COUNT(id) AS total_reviews").
			Where("salon_id = ? AND is_approved = ?", review.SalonID, true).
			Scan(&stats).Error
		if err != nil {
			return err
		}

		average := 0.0
		if stats.AvgRating != nil {
			average = math.Round(*stats.AvgRating*100) / 100
		}

		return tx.Table("salons").
			Where("id = ?", review.SalonID).
			Updates(map[string]interface{}{
				"average_rating": average,
				"total_reviews":  stats.TotalReviews,
			}).Error
	})
}

func (r *repository) GetBySalon(ctx context.Context, salonID uuid.UUID, page, limit int) ([]ReviewRow, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Review{}).
		Where("salon_id = ? AND is_approved = ?", salonID, true).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var rows []ReviewRow
	err = r.db.WithContext(ctx).Table("reviews").
		Select("reviews.id, reviews.salon_id, reviews.customer_id, reviews.rating, reviews.comment, reviews.created_at, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = reviews.customer_id").
		Where("reviews.salon_id = ? AND reviews.is_approved = ?", salonID, true).
		Order("reviews.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *repository) HasReviewed(ctx context.Context, salonID, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Review{}).
		Where("salon_id = ? AND customer_id = ?", salonID, customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
