package services

import (
	"time"

	"github.com/google/uuid"
)

// Service is the live catalog row for something a salon offers. Booking
// items snapshot name, price and duration at checkout, so catalog edits
// never rewrite history.
type Service struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SalonID         uuid.UUID  `json:"salon_id" gorm:"type:uuid;not null;index"`
	CategoryID      *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	Name            string     `json:"name" gorm:"not null;size:255"`
	Description     string     `json:"description" gorm:"type:text"`
	DurationMinutes int        `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	Price           float64    `json:"price" gorm:"not null;check:price >= 0"`
	Currency        string     `json:"currency" gorm:"size:10;default:'GHS'"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *Service) ToResponse() ServiceResponse {
	resp := ServiceResponse{
		ID:              s.ID.String(),
		SalonID:         s.SalonID.String(),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Currency:        s.Currency,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.CategoryID != nil {
		id := s.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

// TableName specifies the table name for GORM
func (Service) TableName() string {
	return "services"
}
