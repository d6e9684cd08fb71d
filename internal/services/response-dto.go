package services

import "time"

type ServiceResponse struct {
	ID              string    `json:"id"`
	SalonID         string    `json:"salon_id"`
	CategoryID      *string   `json:"category_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
