package reviews

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SalonID    uuid.UUID `json:"salon_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_salon_customer"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_salon_customer"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsApproved bool      `json:"is_approved" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	SalonID      string    `json:"salon_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type PaginatedReviews struct {
	Reviews    []ReviewResponse `json:"reviews"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}
