package salons

import (
	"time"

	"github.com/google/uuid"
)

type Salon struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Address     string    `json:"address" gorm:"type:text;not null"`
	City        string    `json:"city" gorm:"not null;size:100;index"`
	Region      string    `json:"region" gorm:"size:100"`
	Country     string    `json:"country" gorm:"size:100;default:'Ghana'"`
	Phone       string    `json:"phone" gorm:"size:20"`
	Email       string    `json:"email" gorm:"size:255"`
	Website     string    `json:"website" gorm:"size:500"`

	// Business hours in 24h HH:MM, used to bound the availability grid
	OpeningTime string `json:"opening_time" gorm:"size:5;default:'09:00'"`
	ClosingTime string `json:"closing_time" gorm:"size:5;default:'18:00'"`

	IsActive      bool    `json:"is_active" gorm:"default:true"`
	IsVerified    bool    `json:"is_verified" gorm:"default:false"`
	AverageRating float64 `json:"average_rating" gorm:"default:0;check:average_rating >= 0 AND average_rating <= 5"`
	TotalReviews  int     `json:"total_reviews" gorm:"default:0;check:total_reviews >= 0"`

	Images []SalonImage `json:"images" gorm:"constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type SalonImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SalonID   uuid.UUID `json:"salon_id" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"image_url" gorm:"not null;size:500"`
	Caption   string    `json:"caption" gorm:"size:255"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	Position  int       `json:"position" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ToResponse converts a Salon to its API shape. IsFavorited is viewer
// specific and gets set by the service layer after cache reads.
func (s *Salon) ToResponse() SalonResponse {
	images := make([]SalonImageResponse, len(s.Images))
	for i, img := range s.Images {
		images[i] = img.ToResponse()
	}

	return SalonResponse{
		ID:            s.ID.String(),
		OwnerID:       s.OwnerID.String(),
		Name:          s.Name,
		Slug:          s.Slug,
		Description:   s.Description,
		Address:       s.Address,
		City:          s.City,
		Region:        s.Region,
		Country:       s.Country,
		Phone:         s.Phone,
		Email:         s.Email,
		Website:       s.Website,
		OpeningTime:   s.OpeningTime,
		ClosingTime:   s.ClosingTime,
		IsActive:      s.IsActive,
		IsVerified:    s.IsVerified,
		AverageRating: s.AverageRating,
		TotalReviews:  s.TotalReviews,
		Images:        images,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (i *SalonImage) ToResponse() SalonImageResponse {
	return SalonImageResponse{
		ID:        i.ID.String(),
		SalonID:   i.SalonID.String(),
		ImageURL:  i.ImageURL,
		Caption:   i.Caption,
		IsPrimary: i.IsPrimary,
		Position:  i.Position,
		CreatedAt: i.CreatedAt,
	}
}

// TableName specifies the table name for GORM
func (Salon) TableName() string {
	return "salons"
}

func (SalonImage) TableName() string {
	return "salon_images"
}
